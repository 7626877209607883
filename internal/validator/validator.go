package validator

import "regexp"

// RgxBEP20Address matches a payout address on the target network:
// 0x followed by exactly 40 hex characters.
var RgxBEP20Address = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

type Validator struct {
	Errors []string `json:",omitempty"`
}

func (v Validator) HasErrors() bool {
	return len(v.Errors) != 0
}

func (v *Validator) AddError(message string) {
	if v.Errors == nil {
		v.Errors = []string{}
	}

	v.Errors = append(v.Errors, message)
}

func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}

func NotBlank(value string) bool {
	return len(value) > 0
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
