package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/geospatial"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/nlp"
	"github.com/orbitscope/satassist-go/internal/resolver"
	"github.com/orbitscope/satassist-go/internal/session"
)

// pickFreePort tries to get a free TCP port on 127.0.0.1
func pickFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func newE2EServer(t *testing.T) *MCPServer {
	t.Helper()
	logger := zap.NewNop()

	processor := nlp.NewProcessor(
		nlp.NewExtractor(nlp.NopRecognizer{}, nlp.DefaultRules(), logger),
		nlp.NewClassifier(nlp.DefaultIntentRules(), logger),
		nil, 8, logger,
	)
	store := graph.NewStore(nil, 8, logger)
	store.SeedBaseKnowledge(context.Background())
	sessions := session.NewManager(10, time.Hour, 100, logger)
	res := resolver.New(processor, geospatial.NewHandler(logger), store, sessions, logger)

	return NewMCPServer(res, store, nil, 8, logger)
}

func TestSSEServer_ListTools(t *testing.T) {
	srv := newE2EServer(t)

	port, err := pickFreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	endpoint := "/sse"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.RunSSE(ctx, addr, endpoint) }()

	// wait briefly for server to bind
	time.Sleep(150 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{Name: "e2e-client", Version: "test"}, nil)
	transport := mcp.NewSSEClientTransport("http://"+addr+endpoint, nil)

	// retry connect a few times to avoid flakes
	var session *mcp.ClientSession
	for i := 0; i < 5; i++ {
		session, err = client.Connect(ctx, transport)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotEmpty(t, tools.Tools)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"ask", "ingest_content", "search_graph", "related_entities",
		"find_paths", "graph_stats", "export_graph", "session_context", "save_snapshot", "health_check"} {
		require.True(t, names[want], "missing tool %s", want)
	}

	session.Close()
	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}
