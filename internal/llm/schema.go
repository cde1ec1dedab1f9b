package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/influmatch/backend/internal/models"
)

// Response is the complete generation payload: the human-readable proposal
// and the structured spec that drives campaign execution.
type Response struct {
	ProposalMarkdown string              `json:"proposalMarkdown" validate:"required,min=500"`
	SpecJSON         models.CampaignSpec `json:"specJson" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateResponse checks a parsed generation payload against the schema and
// returns a single joined message listing every failed field, so a retry
// prompt can show the model exactly what to fix.
func ValidateResponse(resp *Response) error {
	err := validate.Struct(resp)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	issues := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, fmt.Sprintf("%s: failed '%s' validation", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(issues, ", "))
}
