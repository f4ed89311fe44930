// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package forms holds the submitted HTML forms and their validation.
package forms

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/cafe-directory/internal/services/auth"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/directory"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt limits passwords in bytes, max counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Errors maps a form field name to the i18n ID of its error message.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

type RegisterForm struct {
	Name     string `form:"name" validate:"required,max=250"`
	Email    string `form:"email" validate:"required,email,max=250"`
	Password string `form:"password" validate:"required,maxbytes=72"`
}

func (f RegisterForm) Params() auth.RegisterParams {
	return auth.RegisterParams{Name: f.Name, Email: f.Email, Password: f.Password}
}

type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// CafeForm is the add-cafe form. Checkboxes submit "true" when ticked.
type CafeForm struct {
	Name         string `form:"name" validate:"required,max=250"`
	MapURL       string `form:"map_url" validate:"required,url,max=500"`
	ImgURL       string `form:"img_url" validate:"required,max=500"`
	Location     string `form:"location" validate:"required,max=250"`
	HasToilet    bool   `form:"has_toilet"`
	HasWifi      bool   `form:"has_wifi"`
	HasSockets   bool   `form:"has_sockets"`
	CanTakeCalls bool   `form:"can_take_calls"`
	Seats        string `form:"seats" validate:"required,max=250"`
	CoffeePrice  string `form:"coffee_price" validate:"max=250"`
}

func (f CafeForm) Input() directory.CafeInput {
	return directory.CafeInput{
		Name:         f.Name,
		MapURL:       f.MapURL,
		ImgURL:       f.ImgURL,
		Location:     f.Location,
		HasToilet:    f.HasToilet,
		HasWifi:      f.HasWifi,
		HasSockets:   f.HasSockets,
		CanTakeCalls: f.CanTakeCalls,
		Seats:        f.Seats,
		CoffeePrice:  f.CoffeePrice,
	}
}

// Validate checks a form struct and returns nil when it is valid.
func Validate(form any) Errors {
	trim(form)

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": "field_invalid"}
	}

	errs := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = messageID(fe.Tag())
	}
	return errs
}

func messageID(tag string) string {
	switch tag {
	case "required":
		return "field_required"
	case "email":
		return "field_email"
	case "url":
		return "field_url"
	case "max", "maxbytes":
		return "field_too_long"
	default:
		return "field_invalid"
	}
}

// trim strips surrounding whitespace from every string field except passwords,
// so "   " fails the required check.
func trim(form any) {
	v := reflect.ValueOf(form)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() || t.Field(i).Name == "Password" {
			continue
		}
		field.SetString(strings.TrimSpace(field.String()))
	}
}
