package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (c Character) Validate() error {
	if c.ID == "" {
		return errors.New("character id is required")
	}
	if c.ZoneRowI < 0 || c.ZoneColI < 0 {
		return errors.New("character zone position cannot be negative")
	}
	return nil
}

func (z ZoneSource) Validate() error {
	if z.ZoneTypeID == "" {
		return errors.New("zone_type_id is required")
	}
	if !strings.Contains(z.RawSource, "::GEO") {
		return errors.New("raw_source has no ::GEO section")
	}
	return nil
}

func (q QuickAction) Validate() error {
	if q.UUID == "" {
		return errors.New("quick action uuid is required")
	}
	if q.BaseURL == "" {
		return errors.New("quick action base_url is required")
	}
	return nil
}

func (b Build) Validate() error {
	if b.BuildID == "" {
		return errors.New("build_id is required")
	}
	if b.RowI < 0 || b.ColI < 0 {
		return errors.New("build position cannot be negative")
	}
	return nil
}

// ValidateAll проверяет срез DTO и возвращает первую ошибку.
func ValidateAll[T Validator](items []T) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
