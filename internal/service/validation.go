package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	skuPattern  = regexp.MustCompile(`^[A-Z0-9-]+$`)
	namePattern = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
)

// rule is a single validator tag and the message reported when it fails.
type rule struct {
	tag     string
	message string
}

var skuRules = []rule{
	{"notblank", "SKU is required"},
	{"min=5,max=12", "SKU must be between 5 and 12 characters"},
	{"sku_format", "SKU must contain only uppercase letters, numbers and hyphens"},
}

var nameRules = []rule{
	{"notblank", "Name is required"},
	{"min=3,max=40", "Name must be between 3 and 40 characters"},
	{"name_format", "Name must contain only letters, numbers, spaces and hyphens"},
}

// Gate checks a creation request against every field rule and reports all violations.
type Gate struct {
	validate *validator.Validate
}

// NewGate creates a Gate with the product format validators registered.
func NewGate() *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "sku_format", patternValidator(skuPattern))
	mustRegister(v, "name_format", patternValidator(namePattern))
	return &Gate{validate: v}
}

// Validate returns the messages of all failed rules, in field order. A nil request
// is treated as one with blank fields. An empty result means the request is valid.
func (g *Gate) Validate(req *ProductCreateDto) []string {
	if req == nil {
		req = &ProductCreateDto{}
	}
	violations := make([]string, 0)
	violations = append(violations, g.check(req.SKU, skuRules)...)
	violations = append(violations, g.check(req.Name, nameRules)...)
	return violations
}

// check evaluates each rule on its own so one failure never hides another.
func (g *Gate) check(value string, rules []rule) []string {
	var failed []string
	for _, r := range rules {
		if err := g.validate.Var(value, r.tag); err != nil {
			failed = append(failed, r.message)
		}
	}
	return failed
}

func patternValidator(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}
