package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/templui/portfolio/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages line up with request bodies
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Difficulties, fl.Field().String())
	})
	if err != nil {
		panic("failed to register difficulty validation: " + err.Error())
	}

	return v
}

// NormalizeDifficulty maps "easy", " HARD " etc. onto the canonical values.
func NormalizeDifficulty(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}

// Project trims and normalizes in place, then validates.
func Project(in *model.ProjectInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Technologies = NormalizeTags(in.Technologies)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.GithubURL = strings.TrimSpace(in.GithubURL)
	in.DemoURL = strings.TrimSpace(in.DemoURL)

	return structErrors(validate.Struct(in))
}

func ProjectPatch(p *model.ProjectPatch) error {
	errs := &Errors{}
	trimPtr(p.Title, p.Description, p.ImageURL, p.GithubURL, p.DemoURL)
	checkVar(errs, "title", p.Title, "required,max=200")
	checkVar(errs, "description", p.Description, "required")
	if p.Technologies != nil {
		tags := NormalizeTags(*p.Technologies)
		p.Technologies = &tags
		if len(tags) == 0 {
			errs.Add("technologies", "At least one technology is required")
		}
	}
	checkVar(errs, "image_url", p.ImageURL, "omitempty,url")
	checkVar(errs, "github_url", p.GithubURL, "omitempty,url")
	checkVar(errs, "demo_url", p.DemoURL, "omitempty,url")
	return errs.Err()
}

func Certificate(in *model.CertificateInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Issuer = strings.TrimSpace(in.Issuer)
	in.Date = strings.TrimSpace(in.Date)
	in.CredentialID = strings.TrimSpace(in.CredentialID)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.VerificationURL = strings.TrimSpace(in.VerificationURL)

	return structErrors(validate.Struct(in))
}

func CertificatePatch(p *model.CertificatePatch) error {
	errs := &Errors{}
	trimPtr(p.Title, p.Issuer, p.Date, p.CredentialID, p.ImageURL, p.VerificationURL)
	checkVar(errs, "title", p.Title, "required,max=200")
	checkVar(errs, "issuer", p.Issuer, "required")
	checkVar(errs, "date", p.Date, "required")
	checkVar(errs, "image_url", p.ImageURL, "omitempty,url")
	checkVar(errs, "verification_url", p.VerificationURL, "omitempty,url")
	return errs.Err()
}

func DSAProblem(in *model.DSAProblemInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Platform = strings.TrimSpace(in.Platform)
	in.Difficulty = NormalizeDifficulty(in.Difficulty)
	in.Category = strings.TrimSpace(in.Category)
	in.TimeComplexity = strings.TrimSpace(in.TimeComplexity)
	in.SpaceComplexity = strings.TrimSpace(in.SpaceComplexity)
	in.ProblemURL = strings.TrimSpace(in.ProblemURL)
	in.SolutionURL = strings.TrimSpace(in.SolutionURL)
	in.Notes = strings.TrimSpace(in.Notes)

	return structErrors(validate.Struct(in))
}

func DSAProblemPatch(p *model.DSAProblemPatch) error {
	errs := &Errors{}
	trimPtr(p.Title, p.Platform, p.Category, p.TimeComplexity, p.SpaceComplexity, p.ProblemURL, p.SolutionURL, p.Notes)
	if p.Difficulty != nil {
		d := NormalizeDifficulty(*p.Difficulty)
		p.Difficulty = &d
	}
	checkVar(errs, "title", p.Title, "required,max=200")
	checkVar(errs, "platform", p.Platform, "required")
	checkVar(errs, "difficulty", p.Difficulty, "required,difficulty")
	checkVar(errs, "category", p.Category, "required")
	checkVar(errs, "time_complexity", p.TimeComplexity, "required")
	checkVar(errs, "space_complexity", p.SpaceComplexity, "required")
	checkVar(errs, "problem_url", p.ProblemURL, "omitempty,url")
	checkVar(errs, "solution_url", p.SolutionURL, "omitempty,url")
	return errs.Err()
}

// Profile validates an upsert. Skill lists are normalized in place.
func Profile(p *model.ProfilePatch) error {
	errs := &Errors{}
	trimPtr(p.DisplayName, p.Bio, p.Location, p.Email, p.Phone, p.GithubURL, p.LinkedinURL, p.LeetcodeURL, p.AvatarURL)

	if p.DisplayName != nil {
		if err := ValidateName(*p.DisplayName); err != nil {
			errs.Add("display_name", capitalize(err.Error()))
		}
	}
	if p.Email != nil && *p.Email != "" {
		if err := ValidateEmail(*p.Email); err != nil {
			errs.Add("email", "Invalid email address")
		}
	}
	checkVar(errs, "github_url", p.GithubURL, "omitempty,url")
	checkVar(errs, "linkedin_url", p.LinkedinURL, "omitempty,url")
	checkVar(errs, "leetcode_url", p.LeetcodeURL, "omitempty,url")
	checkVar(errs, "avatar_url", p.AvatarURL, "omitempty,url")

	if p.FrontendSkills != nil {
		skills := NormalizeTags(*p.FrontendSkills)
		p.FrontendSkills = &skills
	}
	if p.BackendSkills != nil {
		skills := NormalizeTags(*p.BackendSkills)
		p.BackendSkills = &skills
	}

	return errs.Err()
}

func structErrors(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := &Errors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		// dive errors report "technologies[0]"
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		errs.Add(field, message(field, fe.Tag(), fe.Param()))
	}
	return errs.Err()
}

func checkVar(errs *Errors, field string, value *string, tag string) {
	if value == nil {
		return
	}

	err := validate.Var(*value, tag)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		errs.Add(field, message(field, fieldErrs[0].Tag(), fieldErrs[0].Param()))
		return
	}
	errs.Add(field, "Invalid value")
}

func message(field, tag, param string) string {
	label := capitalize(strings.ReplaceAll(field, "_", " "))
	switch tag {
	case "required":
		if field == "technologies" {
			return "At least one technology is required"
		}
		return label + " is required"
	case "min":
		if field == "technologies" {
			return "At least one technology is required"
		}
		return fmt.Sprintf("%s must have at least %s entries", label, param)
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters)", label, param)
	case "url":
		return "Invalid URL"
	case "difficulty":
		return "Difficulty must be one of " + strings.Join(model.Difficulties, ", ")
	default:
		return label + " is invalid"
	}
}

func trimPtr(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
