package enrollment

import (
	"strings"
	"time"

	"github.com/Diva-jaw/Frontend--sub001/core"
)

// Form field names, as used by Modal.Set and in field errors.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhoneNo    = "phone_no"
	FieldCollege    = "college"
	FieldDepartment = "department"
	FieldYear       = "year"
)

// FormData is the draft filled in by the visitor.
type FormData struct {
	Name       string `json:"name" form:"name" validate:"notblank"`
	Email      string `json:"email" form:"email" validate:"notblank,email_lite"`
	PhoneNo    string `json:"phone_no" form:"phone_no" validate:"notblank,intl_phone"`
	College    string `json:"college" form:"college"`
	Department string `json:"department" form:"department"`
	Year       string `json:"year" form:"year"`
}

// Clean returns a copy with surrounding whitespace removed and the email lowered.
// The phone number keeps its inner spaces; they are ignored by validation only.
func (f FormData) Clean() FormData {
	return FormData{
		Name:       core.CleanString(f.Name),
		Email:      core.CleanString(f.Email, true /* lower */),
		PhoneNo:    core.CleanString(f.PhoneNo),
		College:    core.CleanString(f.College),
		Department: core.CleanString(f.Department),
		Year:       core.CleanString(f.Year),
	}
}

// Props are what the page hosting the modal knows about the level being enrolled in.
type Props struct {
	CourseID   int    `json:"course_id" query:"course_id"`
	ModuleID   int    `json:"module_id" query:"module_id"`
	LevelID    int    `json:"level_id" query:"level_id"`
	CourseName string `json:"course_name" query:"course_name"`
	LevelName  string `json:"level_name" query:"level_name"`
	ReturnPath string `json:"return_path" query:"return_path"`
}

// Result is what the enrollment service answers on success.
type Result struct {
	LeadID  string `json:"lead_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success is handed to the modal's success callback.
type Success struct {
	Result     Result `json:"result"`
	CourseName string `json:"course_name"`
	LevelName  string `json:"level_name"`
	UserName   string `json:"user_name"`
}

// Lead is a stored enrollment request.
type Lead struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   int       `json:"course_id"`
	ModuleID   int       `json:"module_id"`
	LevelID    int       `json:"level_id"`
	CourseName string    `json:"course_name"`
	ModuleName string    `json:"module_name"`
	LevelName  string    `json:"level_name"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PhoneNo    string    `json:"phone_no"`
	College    string    `json:"college"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// LeadFilter applies AND on its non-zero fields. Email matches case-insensitively.
type LeadFilter struct {
	CourseID int
	LevelID  int
	Email    string
	UserID   string
}

func (f LeadFilter) Match(l Lead) bool {
	if f.CourseID != 0 && l.CourseID != f.CourseID {
		return false
	}
	if f.LevelID != 0 && l.LevelID != f.LevelID {
		return false
	}
	if f.Email != "" && !strings.EqualFold(l.Email, f.Email) {
		return false
	}
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	return true
}

// LeadOrderings maps the API ordering fields to lead columns.
var LeadOrderings = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"email":      "email",
	"course_id":  "course_id",
	"level_id":   "level_id",
}
