package ui

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

// EnrollmentView is what the enrollment modal needs to render; see EnrollmentViewOf.
type EnrollmentView struct {
	Open    bool
	Loading bool
	Error   string
	Props   enrollment.Props
	Form    enrollment.FormData
}

func EnrollmentViewOf(m *enrollment.Modal) EnrollmentView {
	return EnrollmentView{
		Open:    m.IsOpen(),
		Loading: m.Loading(),
		Error:   m.Error(),
		Props:   m.Props(),
		Form:    m.Form(),
	}
}

// EnrollmentModal renders the lead form. Nothing is rendered while the modal is closed.
func EnrollmentModal(v EnrollmentView) g.Node {
	if !v.Open {
		return g.Group{}
	}
	submitLabel := "Enroll Now"
	if v.Loading {
		submitLabel = "Enrolling..."
	}
	return Div(ID("enrollment-modal"), Class("enrollment-modal"), g.Attr("role", "dialog"),
		H2(g.Textf("Enroll in %s", v.Props.CourseName)),
		g.If(v.Props.LevelName != "", P(Class("level-name"), g.Text(v.Props.LevelName))),
		g.If(v.Error != "", Div(Class("form-error"), g.Attr("role", "alert"), g.Text(v.Error))),
		Form(Method("post"), Action("/v1/enrollments"),
			g.Attr("hx-post", "/v1/enrollments"),
			g.Attr("hx-target", "#enrollment-modal"),
			g.Attr("hx-swap", "outerHTML"),
			hidden("course_id", v.Props.CourseID),
			hidden("module_id", v.Props.ModuleID),
			hidden("level_id", v.Props.LevelID),
			g.If(v.Props.ReturnPath != "", Input(Type("hidden"), Name("return_path"), Value(v.Props.ReturnPath))),
			field(enrollment.FieldName, "Full Name", "text", v.Form.Name, true),
			field(enrollment.FieldEmail, "Email", "email", v.Form.Email, true),
			field(enrollment.FieldPhoneNo, "Phone Number", "tel", v.Form.PhoneNo, true),
			field(enrollment.FieldCollege, "College", "text", v.Form.College, false),
			field(enrollment.FieldDepartment, "Department", "text", v.Form.Department, false),
			field(enrollment.FieldYear, "Year", "text", v.Form.Year, false),
			Button(Type("submit"), Class("submit"),
				g.If(v.Loading, Disabled()),
				g.Text(submitLabel),
			),
		),
	)
}

// EnrollmentSuccess replaces the modal once the lead is accepted.
func EnrollmentSuccess(succ enrollment.Success) g.Node {
	return Div(ID("enrollment-modal"), Class("enrollment-modal success"), g.Attr("role", "dialog"),
		H2(g.Text("Enrollment received")),
		P(g.Textf("Thanks %s, we have your request for %s (%s).", succ.UserName, succ.CourseName, succ.LevelName)),
		P(Class("reference"), g.Textf("Reference: %s", succ.Result.LeadID)),
	)
}

func hidden(name string, value int) g.Node {
	return Input(Type("hidden"), Name(name), Value(strconv.Itoa(value)))
}

func field(name, label, typ, value string, required bool) g.Node {
	id := "enroll-" + name
	return Div(Class("form-field"),
		Label(For(id), g.Text(label), g.If(required, Span(Class("required"), g.Text("*")))),
		Input(ID(id), Name(name), Type(typ), Value(value), g.If(required, Required())),
	)
}
