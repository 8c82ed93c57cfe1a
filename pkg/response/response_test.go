package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	b, err := json.Marshal(OKT(map[string]string{"status": "ok"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok"}}`, string(b))

	e := ErrorT[any](APIResponseCodeUnauthorized, "token expired")
	require.Equal(t, "unauthorized", e.Message)
	require.Equal(t, "token expired", e.Data)

	require.Equal(t, "unexpected error", ErrorT[any](APIResponseCode(1), nil).Message)
}
