package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// Prometheus records every request labeled by its method and response code.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		method := xcontext.HTTPRequest(ctx).Method
		status := fmt.Sprint(code)

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(method, status).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(method, status).Observe(time.Since(xcontext.StartTime(ctx)).Seconds())
	}
}
