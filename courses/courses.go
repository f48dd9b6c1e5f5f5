// Package courses queries the course catalogue for detail panel recommendations.
package courses

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3/client"

	"github.com/meikuraledutech/roadmap/detail"
)

// HTTPRecommender calls GET {base}/api/courses?search=<keywords>&limit=<n>.
type HTTPRecommender struct {
	base string
	cc   *client.Client
}

// New returns a recommender for the catalogue at baseURL.
func New(baseURL string, timeout time.Duration) *HTTPRecommender {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cc := client.New()
	cc.SetTimeout(timeout)
	return &HTTPRecommender{base: strings.TrimRight(baseURL, "/"), cc: cc}
}

var _ detail.Recommender = (*HTTPRecommender)(nil)

// listResponse accepts both {"data": [...]} and {"data": {"courses": [...]}}.
type listResponse struct {
	Data json.RawMessage `json:"data"`
}

func (r *HTTPRecommender) Recommend(ctx context.Context, keywords []string, limit int) ([]detail.Course, error) {
	resp, err := r.cc.Get(r.base+"/api/courses", client.Config{
		Ctx: ctx,
		Param: map[string]string{
			"search": strings.Join(keywords, " "),
			"limit":  strconv.Itoa(limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("courses: request: %w", err)
	}
	defer resp.Close()

	if code := resp.StatusCode(); code != 200 {
		return nil, fmt.Errorf("courses: unexpected status %d", code)
	}
	return decode(resp.Body(), limit)
}

func decode(body []byte, limit int) ([]detail.Course, error) {
	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("courses: decode: %w", err)
	}
	var list []detail.Course
	if err := json.Unmarshal(lr.Data, &list); err != nil {
		var wrapped struct {
			Courses []detail.Course `json:"courses"`
		}
		if err := json.Unmarshal(lr.Data, &wrapped); err != nil {
			return nil, fmt.Errorf("courses: decode data: %w", err)
		}
		list = wrapped.Courses
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
