package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldErrors converts binding errors for req into messages keyed by form
// field name. ok is false when err is not a validation failure.
func fieldErrors(req any, err error) (fields map[string]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, rules := fe.Field(), map[string]string{}
		if sf, found := t.FieldByName(fe.StructField()); found {
			if form := sf.Tag.Get("form"); form != "" {
				name = form
			}
			rules = bindingRules(sf.Tag.Get("binding"))
		}
		if _, seen := fields[name]; !seen {
			fields[name] = fieldMessage(fe, rules)
		}
	}
	return fields, true
}

func bindingRules(tag string) map[string]string {
	rules := map[string]string{}
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(rule, "=")
		rules[key] = param
	}
	return rules
}

func fieldMessage(fe validator.FieldError, rules map[string]string) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "min", "max":
		minLen, hasMin := rules["min"]
		maxLen, hasMax := rules["max"]
		switch {
		case hasMin && hasMax:
			return fmt.Sprintf("Field must be between %s and %s characters long.", minLen, maxLen)
		case hasMin:
			return fmt.Sprintf("Field must be at least %s characters long.", minLen)
		default:
			return fmt.Sprintf("Field cannot be longer than %s characters.", maxLen)
		}
	case "eqfield":
		return "Passwords must match."
	case "oneof":
		return "Not a valid choice."
	}
	return "Invalid value."
}
