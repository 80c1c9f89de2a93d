package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// optionalUUIDQuery returns nil when the query parameter is absent.
func optionalUUIDQuery(c fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

func boolQuery(c fiber.Ctx, name string, def bool) bool {
	v, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// dateQuery accepts YYYY-MM-DD (read in loc) or RFC 3339.
func dateQuery(c fiber.Ctx, name string, loc *time.Location) (time.Time, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid %s: use YYYY-MM-DD", name)
	}
	return t, true, nil
}
