package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
	"juntacomunal/pkg/database"
)

// Helpers that validate create input and merge tri-state patches.

func required(field string) error {
	return common.BadInput("%s es obligatorio.", field)
}

func oneOf(field, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return common.BadInput("%s solo admite: %s.", field, strings.Join(allowed, ", "))
	}
	return nil
}

// enumOr returns value, or def when value is nil, after checking allowed.
func enumOr(field string, value *string, def string, allowed ...string) (string, error) {
	if value == nil {
		return def, nil
	}
	v := strings.TrimSpace(*value)
	if err := oneOf(field, v, allowed...); err != nil {
		return "", err
	}
	return v, nil
}

func patchText(field string, o common.Optional[string], max int, dst *string) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	v, err := common.RequiredText(field, o.Value, max)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func patchNullableText(field string, o common.Optional[string], max int, dst **string) error {
	if !o.Set {
		return nil
	}
	v, err := common.NullableTextMax(field, o.Ptr(), max)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func patchEnum(field string, o common.Optional[string], dst *string, allowed ...string) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	v := strings.TrimSpace(o.Value)
	if err := oneOf(field, v, allowed...); err != nil {
		return err
	}
	*dst = v
	return nil
}

func patchDate(field string, o common.Optional[string], dst *time.Time) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	d, err := common.ParseDate(field, o.Value)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func patchNullableDate(field string, o common.Optional[string], dst **time.Time) error {
	if !o.Set {
		return nil
	}
	d, err := common.ParseOptionalDate(field, o.Ptr())
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func patchTimeOfDay(field string, o common.Optional[string], dst **string) error {
	if !o.Set {
		return nil
	}
	v, err := common.ParseOptionalTimeOfDay(field, o.Ptr())
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func patchValue[T any](field string, o common.Optional[T], dst *T) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	*dst = o.Value
	return nil
}

func patchNullableDecimal(o common.Optional[decimal.Decimal], dst *decimal.NullDecimal) {
	if !o.Set {
		return
	}
	*dst = nullDecimal(o.Ptr())
}

func nullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func dateOrder(fromField string, from time.Time, toField string, to *time.Time) error {
	if to != nil && to.Before(from) {
		return common.BadInput("%s no puede ser menor que %s.", toField, fromField)
	}
	return nil
}

// existsFunc is the shape of the repositories' Exists methods.
type existsFunc func(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)

// ensureExists turns a missing reference into NotFound(msg).
func ensureExists(ctx context.Context, q database.DBTX, check existsFunc, tenantID, id int64, msg string) error {
	ok, err := check(ctx, q, tenantID, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.NotFound(msg)
	}
	return nil
}
