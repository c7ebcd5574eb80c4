// Package forms turns raw submitted form values into validated domain inputs.
package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

// CheckboxOn is what browsers submit for a checked checkbox without a value
// attribute.
const CheckboxOn = "on"

const (
	FieldTitle              = "title"
	FieldDescription        = "description"
	FieldExpiresAt          = "expires_at"
	FieldIsActive           = "is_active"
	FieldAllowMultipleVotes = "allow_multiple_votes"
	FieldIsAnonymous        = "is_anonymous"
	FieldMaxVotesPerUser    = "max_votes_per_user"
	FieldUserID             = "user_id"
	FieldPollID             = "poll_id"
	FieldOptionID           = "option_id"
	FieldVoterIP            = "voter_ip"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func OptionKey(i int) string {
	return fmt.Sprintf("option_%d", i)
}

// ExtractOptions reads option_0, option_1, ... until the first missing index.
// Blank values are dropped but do not stop the scan.
func ExtractOptions(form url.Values) []string {
	options := []string{}
	for i := 0; form.Has(OptionKey(i)); i++ {
		if v := strings.TrimSpace(form.Get(OptionKey(i))); v != "" {
			options = append(options, v)
		}
	}
	return options
}

func NormalizeCreate(form url.Values) (domain.CreatePollInput, error) {
	title := strings.TrimSpace(form.Get(FieldTitle))
	if title == "" {
		return domain.CreatePollInput{}, domain.NewValidationError(domain.MsgTitleRequired)
	}

	input := domain.CreatePollInput{
		Title:              title,
		AllowMultipleVotes: checked(form, FieldAllowMultipleVotes),
		IsAnonymous:        checked(form, FieldIsAnonymous),
		MaxVotesPerUser:    domain.DefaultMaxVotesPerUser,
		Options:            ExtractOptions(form),
	}

	if description := strings.TrimSpace(form.Get(FieldDescription)); description != "" {
		input.Description = &description
	}
	if expiresAt := form.Get(FieldExpiresAt); expiresAt != "" {
		input.ExpiresAt = &expiresAt
	}
	if n, ok := positiveInt(form.Get(FieldMaxVotesPerUser)); ok {
		input.MaxVotesPerUser = n
	}

	if len(input.Options) < domain.MinPollOptions {
		return domain.CreatePollInput{}, domain.NewValidationError(domain.MsgMinOptions)
	}

	return input, nil
}

// NormalizeUpdate only includes fields the form actually carries. A present but
// blank description clears it; a blank title or expiry is ignored.
func NormalizeUpdate(form url.Values) domain.UpdatePollInput {
	var input domain.UpdatePollInput

	if title := strings.TrimSpace(form.Get(FieldTitle)); title != "" {
		input.Title = domain.Set(title)
	}

	if form.Has(FieldDescription) {
		if description := strings.TrimSpace(form.Get(FieldDescription)); description != "" {
			input.Description = domain.Set(description)
		} else {
			input.Description = domain.Clear[string]()
		}
	}

	if expiresAt := form.Get(FieldExpiresAt); expiresAt != "" {
		input.ExpiresAt = domain.Set(expiresAt)
	}

	if form.Has(FieldIsActive) {
		input.IsActive = domain.Set(checked(form, FieldIsActive))
	}
	if form.Has(FieldAllowMultipleVotes) {
		input.AllowMultipleVotes = domain.Set(checked(form, FieldAllowMultipleVotes))
	}
	if form.Has(FieldIsAnonymous) {
		input.IsAnonymous = domain.Set(checked(form, FieldIsAnonymous))
	}

	if form.Has(FieldMaxVotesPerUser) {
		if n, ok := positiveInt(form.Get(FieldMaxVotesPerUser)); ok {
			input.MaxVotesPerUser = domain.Set(n)
		}
	}

	return input
}

// NormalizeVote decodes the vote fields and trims them. Required-field checks
// belong to the command layer.
func NormalizeVote(form url.Values) (domain.CreateVoteInput, error) {
	var input domain.CreateVoteInput
	if err := decoder.Decode(&input, form); err != nil {
		return domain.CreateVoteInput{}, domain.NewValidationError("Invalid vote form: " + err.Error())
	}

	input.PollID = strings.TrimSpace(input.PollID)
	input.OptionID = strings.TrimSpace(input.OptionID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.VoterIP = strings.TrimSpace(input.VoterIP)

	return input, nil
}

// Decode fills dst from form using its `schema` tags.
func Decode(dst any, form url.Values) error {
	if err := decoder.Decode(dst, form); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

func checked(form url.Values, key string) bool {
	return form.Get(key) == CheckboxOn
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
