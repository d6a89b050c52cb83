package chainrpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"devchain/internal/chainrpc"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type recorder struct {
	mu    sync.Mutex
	calls []rpcRequest
	fail  bool
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var in rpcRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.mu.Lock()
	r.calls = append(r.calls, in)
	fail := r.fail
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	out := map[string]any{"jsonrpc": "2.0", "id": in.ID}
	if fail {
		out["error"] = map[string]any{"code": -32601, "message": "method not found"}
	} else {
		out["result"] = true
	}
	_ = json.NewEncoder(w).Encode(out)
}

func TestClient_ConfigCalls(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	c := chainrpc.New(srv.URL, time.Second)
	ctx := context.Background()

	require.NoError(t, c.SetAutomine(ctx, true))
	require.NoError(t, c.SetIntervalMining(ctx, 5000))

	require.Len(t, rec.calls, 2)
	require.Equal(t, chainrpc.MethodSetAutomine, rec.calls[0].Method)
	require.JSONEq(t, "true", string(rec.calls[0].Params[0]))
	require.Equal(t, chainrpc.MethodSetIntervalMining, rec.calls[1].Method)
	require.JSONEq(t, "5000", string(rec.calls[1].Params[0]))
}

func TestClient_RPCError(t *testing.T) {
	srv := httptest.NewServer(&recorder{fail: true})
	defer srv.Close()

	err := chainrpc.New(srv.URL, time.Second).SetAutomine(context.Background(), true)
	require.ErrorContains(t, err, chainrpc.MethodSetAutomine)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := chainrpc.New(url, 200*time.Millisecond).SetIntervalMining(context.Background(), 5000)
	require.Error(t, err)
}
