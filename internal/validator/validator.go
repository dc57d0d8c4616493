package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/proctorhub/proctoring-service/internal/models"
)

// Validator wraps go-playground validation with domain checks that struct
// tags cannot express.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	RegisterCustomValidators(v)
	return &Validator{validate: v}
}

// Struct runs tag-based validation on any input struct.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateExam checks a new exam beyond its struct tags.
func (v *Validator) ValidateExam(exam *models.Exam) error {
	if err := v.validate.Struct(exam); err != nil {
		return err
	}
	if exam.Duration <= 0 {
		return fmt.Errorf("exam duration must be positive")
	}
	if exam.ScheduledEnd != nil && !exam.ScheduledEnd.After(exam.ScheduledStart) {
		return fmt.Errorf("scheduled end must be after scheduled start")
	}
	if exam.MaxScore != nil && exam.PassingScore != nil && *exam.PassingScore > *exam.MaxScore {
		return fmt.Errorf("passing score cannot exceed max score")
	}
	return nil
}

// ValidateAlert checks a new alert beyond its struct tags.
func (v *Validator) ValidateAlert(alert *models.Alert) error {
	if err := v.validate.Struct(alert); err != nil {
		return err
	}
	if alert.Confidence < 0 || alert.Confidence > 100 {
		return fmt.Errorf("alert confidence must be between 0 and 100")
	}
	return nil
}

// Custom validation functions

func ValidateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleUser,
		models.RoleAdmin,
		models.RoleProctor,
		models.RoleStudent,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func ValidateAlertSeverity(fl validator.FieldLevel) bool {
	validSeverities := []models.AlertSeverity{
		models.SeverityLow,
		models.SeverityMedium,
		models.SeverityHigh,
		models.SeverityCritical,
	}

	value := fl.Field().String()
	for _, validSeverity := range validSeverities {
		if string(validSeverity) == value {
			return true
		}
	}
	return false
}

func ValidateDetectionSensitivity(fl validator.FieldLevel) bool {
	validLevels := []models.DetectionSensitivity{
		models.SensitivityLow,
		models.SensitivityMedium,
		models.SensitivityHigh,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("alert_severity", ValidateAlertSeverity)
	validate.RegisterValidation("detection_sensitivity", ValidateDetectionSensitivity)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
