package chainrpc

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"devchain/internal/domain"
)

const (
	MethodSetAutomine       = "evm_setAutomine"
	MethodSetIntervalMining = "evm_setIntervalMining"
)

type Client struct {
	URL     string
	Timeout time.Duration
}

func New(url string, timeout time.Duration) *Client {
	return &Client{URL: url, Timeout: timeout}
}

var _ domain.ChainClient = (*Client)(nil)

func (c *Client) SetAutomine(ctx context.Context, enabled bool) error {
	return c.call(ctx, MethodSetAutomine, enabled)
}

func (c *Client) SetIntervalMining(ctx context.Context, intervalMillis int64) error {
	return c.call(ctx, MethodSetIntervalMining, intervalMillis)
}

// call dials per request: the node may not be listening when the client is
// built, and each call is one-shot.
func (c *Client) call(ctx context.Context, method string, args ...any) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	rc, err := rpc.DialContext(ctx, c.URL)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer rc.Close()

	var result any
	if err := rc.CallContext(ctx, &result, method, args...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}
