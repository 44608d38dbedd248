package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

const invalidConfigErrTemplate = "The sync configuration from %s is invalid.\n%s"

var (
	// rsync daemon sources, either `rsync://host[:port]/module[/path]` or
	// `host::module[/path]`.
	rsyncURLPattern    = regexp.MustCompile(`^rsync://[^/\s]+/[^/\s]+(/\S*)?$`)
	rsyncDaemonPattern = regexp.MustCompile(`^[^:/\s]+::[^/\s]+(/\S*)?$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %s", tag, err))
		}
	}
	mustRegister("abspath", func(fl validator.FieldLevel) bool {
		return filepath.IsAbs(fl.Field().String())
	})
	mustRegister("rsyncsource", func(fl validator.FieldLevel) bool {
		return IsRsyncSource(fl.Field().String())
	})
	return v
}

// IsRsyncSource returns whether `source` names a module on an rsync daemon.
func IsRsyncSource(source string) bool {
	return rsyncURLPattern.MatchString(source) ||
		rsyncDaemonPattern.MatchString(source)
}

// Validate checks that `cfg` describes a usable sync. Every problem is
// reported, not just the first. `from` describes where the config came from.
func Validate(cfg Sync, from string) error {
	var result *multierror.Error

	if err := validate.Struct(cfg); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.WithContext(err, "validate")
		}
		for _, fieldErr := range fieldErrs {
			result = multierror.Append(result, toFieldError(fieldErr))
		}
	}

	if filepath.IsAbs(cfg.EnvironmentPath) && filepath.IsAbs(cfg.TargetPath) &&
		!isWithin(cfg.EnvironmentPath, cfg.TargetPath) {
		result = multierror.Append(result, errors.New(
			"targetPath %q must be inside environmentPath %q",
			cfg.TargetPath, cfg.EnvironmentPath))
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.NewFriendlyError(invalidConfigErrTemplate, from, err)
	}
	return nil
}

func toFieldError(fieldErr validator.FieldError) error {
	value := fmt.Sprint(fieldErr.Value())
	switch fieldErr.Tag() {
	case "required":
		return errors.MissingFieldError{Field: fieldErr.Field()}
	case "abspath":
		return errors.New("%s %q must be an absolute path", fieldErr.Field(), value)
	case "rsyncsource":
		return errors.New("%s %q must be of the form rsync://host/module "+
			"or host::module", fieldErr.Field(), value)
	default:
		return errors.New("%s %q failed %s validation",
			fieldErr.Field(), value, fieldErr.Tag())
	}
}

// isWithin returns whether `path` is `parent` or a descendant of it. Both
// paths must be absolute.
func isWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
