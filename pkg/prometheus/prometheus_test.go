package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/stretchr/testify/require"
)

func Test_NewHandler(t *testing.T) {
	common.PromCounters[common.GameResultTotal].WithLabelValues("Spin & Win", "10% Off").Inc()

	w := httptest.NewRecorder()
	NewHandler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), common.GameResultTotal)
	require.Contains(t, w.Body.String(), common.LedgerPlays)
}
