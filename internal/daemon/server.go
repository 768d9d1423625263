package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	lzo "github.com/lzoblock/lzo1x"
	"github.com/lzoblock/lzo1x/internal/accel"
	"github.com/lzoblock/lzo1x/internal/block"
)

// coldInitEstimate is the one-time device/context/kernel setup cost the
// daemon amortises by staying resident, used only to report the
// "accumulated init savings" teardown statistic — it does not affect
// scheduling or timing of any request.
const coldInitEstimate = 50 * time.Millisecond

// Stats accumulates the daemon statistics record reported at teardown:
// request count, cumulative elapsed service time, and cumulative
// estimated cold-init time saved by reusing the device across requests.
type Stats struct {
	mu            sync.Mutex
	Requests      int
	TotalElapsed  time.Duration
	InitTimeSaved time.Duration
}

func (s *Stats) record(elapsed, saved time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests++
	s.TotalElapsed += elapsed
	s.InitTimeSaved += saved
}

func (s *Stats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Requests: s.Requests, TotalElapsed: s.TotalElapsed, InitTimeSaved: s.InitTimeSaved}
}

// Server is the long-lived process holding accelerator device state across
// requests. Its lifecycle is init → serve → teardown: Serve preloads every
// kernel program once, then services connections one at a time until ctx
// is cancelled (by a signal handler in cmd/lzod), then tears down and
// reports the aggregate statistics record.
type Server struct {
	SocketPath string
	KernelDir  string
	Workers    int
	Logger     *slog.Logger

	device *accel.SoftDevice
	stats  Stats
}

// NewServer constructs a Server. The device and its program cache are
// created here and held for the server's entire lifetime — this is the
// daemon's kernel cache, process-long per spec.md §3.
func NewServer(socketPath, kernelDir string, workers int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		SocketPath: socketPath,
		KernelDir:  kernelDir,
		Workers:    workers,
		Logger:     logger,
		device:     accel.NewSoftDevice(kernelDir),
	}
}

func (s *Server) workers() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

// Serve binds the socket, preloads all four compress programs and the
// decompress program, then accepts and services connections one at a time
// until ctx is cancelled. The accept loop and the listener-close-on-cancel
// goroutine are joined through an errgroup so the first error from either
// is what Serve returns; on any return path the socket file is removed
// and the aggregate statistics record is logged.
func (s *Server) Serve(ctx context.Context) error {
	for _, label := range []lzo.Label{lzo.LabelX, lzo.LabelK, lzo.LabelL, lzo.LabelO} {
		if _, err := s.device.Programs.Load(label, accel.KindCompress); err != nil {
			return fmt.Errorf("daemon: preload compress program %s: %w", label, err)
		}
	}
	if _, err := s.device.Programs.Load(lzo.LabelX, accel.KindDecompress); err != nil {
		return fmt.Errorf("daemon: preload decompress program: %w", err)
	}

	_ = os.Remove(s.SocketPath)
	ln, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("daemon: listen on %q: %w", s.SocketPath, err)
	}

	s.Logger.Info("daemon listening", "socket", s.SocketPath)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				s.Logger.Error("accept failed", "error", err)
				continue
			}

			s.handleConn(conn)
		}
	})

	serveErr := g.Wait()
	_ = os.Remove(s.SocketPath)

	snap := s.stats.snapshot()
	var avg time.Duration
	if snap.Requests > 0 {
		avg = snap.TotalElapsed / time.Duration(snap.Requests)
	}
	s.Logger.Info("daemon teardown",
		"requests", snap.Requests,
		"total_elapsed", snap.TotalElapsed,
		"average_elapsed", avg,
		"init_time_saved", snap.InitTimeSaved,
	)

	return serveErr
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	req, err := DecodeRequest(conn)
	if err != nil {
		s.Logger.Error("decode request failed", "error", err)
		return
	}

	resp := s.handle(req)
	resp.ElapsedMicros = uint64(time.Since(start).Microseconds())

	if err := resp.Encode(conn); err != nil {
		s.Logger.Error("encode response failed", "error", err)
	}

	var saved time.Duration
	if s.stats.snapshot().Requests > 0 {
		saved = coldInitEstimate
	}
	s.stats.record(time.Since(start), saved)
}

func (s *Server) handle(req Request) Response {
	switch req.Operation {
	case OpCompress:
		return s.handleCompress(req)
	case OpDecompress:
		return s.handleDecompress(req)
	default:
		return Response{Status: 1, Message: fmt.Sprintf("unknown operation %q", req.Operation)}
	}
}

func (s *Server) handleCompress(req Request) Response {
	input, err := os.ReadFile(req.InputPath)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	label := req.LabelForDaemon()
	blockSize, ranges := block.Plan(len(input), s.workers(), block.AccelParams)

	outputs, err := s.device.DispatchCompress(label, input, blockSize, ranges)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	container, err := block.Assemble(uint64(len(input)), blockSize, outputs)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	if err := os.WriteFile(req.OutputPath, container, 0o644); err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	return Response{Status: 0, OutputSize: uint64(len(container))}
}

func (s *Server) handleDecompress(req Request) Response {
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	c, err := block.Parse(data)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	output, err := s.device.DispatchDecompress(c)
	if err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	if err := os.WriteFile(req.OutputPath, output, 0o644); err != nil {
		return Response{Status: 1, Message: err.Error()}
	}

	return Response{Status: 0, OutputSize: uint64(len(output))}
}
