package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"naat/internal/config"
)

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid int")
	}
	return &parsed, nil
}

func parseTimeParam(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

const maxPage = 100_000

// pageWindow reads page and page_size. A page size above the configured
// maximum is clamped.
func pageWindow(pageValue, sizeValue string, cfg config.PaginationConfig) (int, int, error) {
	page, err := parseIntParam(pageValue, 0)
	if err != nil || page > maxPage {
		return 0, 0, fmt.Errorf("invalid page")
	}
	size, err := parseIntParam(sizeValue, cfg.DefaultPageSize)
	if err != nil || size == 0 {
		return 0, 0, fmt.Errorf("invalid page_size")
	}
	if cfg.MaxPageSize > 0 && size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}
	return page, size, nil
}
