package httpserver

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/util"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

// listRequest reads q, sort, page, limit and the named filters from the
// query string.
func listRequest(c echo.Context, filters ...string) query.Request {
	req := query.Request{
		Q:     c.QueryParam("q"),
		Sort:  strings.TrimSpace(c.QueryParam("sort")),
		Page:  util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit: util.ParseIntDefault(c.QueryParam("limit"), query.DefaultLimit),
	}
	for _, f := range filters {
		if v := strings.TrimSpace(c.QueryParam(f)); v != "" {
			if req.Filters == nil {
				req.Filters = make(map[string]string, len(filters))
			}
			req.Filters[f] = v
		}
	}
	return req
}

// normalizeBoolFilter rewrites a boolean filter to "true"/"false"; ok is
// false when the value is not a boolean.
func normalizeBoolFilter(req *query.Request, key string) bool {
	v, present := req.Filters[key]
	if !present {
		return true
	}
	b, ok := util.ParseBool(v)
	if !ok {
		return false
	}
	req.Filters[key] = strconv.FormatBool(b)
	return true
}

const publishTimeout = 5 * time.Second

// publish sends an event without failing the request.
func publish(c echo.Context, p mykafka.Publisher, topic, key string, event mykafka.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "event", event.Type, "error", err)
	}
}
