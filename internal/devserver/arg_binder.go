package devserver

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var parsers = map[reflect.Kind]func(v string) (interface{}, error){
	reflect.String: func(v string) (interface{}, error) { return v, nil },
	reflect.Int:    func(v string) (interface{}, error) { return strconv.Atoi(v) },
	reflect.Bool:   func(v string) (interface{}, error) { return strconv.ParseBool(v) },
}

// BindArgs binds path and query parameters in the context to struct fields. Fields may use named
// types such as model.SessionID; parsed values are converted to the field type.
func BindArgs(i interface{}, c echo.Context) error {
	v := reflect.ValueOf(i).Elem()
	for index := 0; index < v.Type().NumField(); index++ {
		meta := v.Type().Field(index)
		if name, ok := meta.Tag.Lookup("path"); ok {
			if err := bindValue(name, meta.Type, v.Field(index), c.Param(name)); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
		if name, ok := meta.Tag.Lookup("query"); ok {
			if err := bindValue(name, meta.Type, v.Field(index), c.QueryParam(name)); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
	}
	return nil
}

func bindValue(name string, t reflect.Type, f reflect.Value, value string) error {
	if value == "" {
		if t.Kind() == reflect.Ptr {
			return nil
		}
		return errors.Errorf("missing parameter: %s", name)
	}

	target := t
	if t.Kind() == reflect.Ptr {
		target = t.Elem()
	}
	parser, ok := parsers[target.Kind()]
	if !ok {
		return errors.Errorf("no parser found for kind: %v", target.Kind())
	}
	parsed, err := parser(value)
	if err != nil {
		return errors.Wrapf(err, "unable to parse to %v: %s", target.Kind(), value)
	}

	converted := reflect.ValueOf(parsed).Convert(target)
	if t.Kind() == reflect.Ptr {
		f.Set(reflect.New(target))
		f.Elem().Set(converted)
	} else {
		f.Set(converted)
	}
	return nil
}
