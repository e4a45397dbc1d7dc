package driver

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/axletest/axletest/ipc"
)

// spawnChild starts one runner process: a fresh os.Pipe pair carries driver
// requests to the child on fd 3, and child responses back to the driver on
// fd 4, via exec.Cmd.ExtraFiles. This replaces the teacher's
// CreateNamedPipeA/ConnectNamedPipe dance — anonymous pipes need no name
// and no explicit connect handshake, since the file descriptors are
// inherited directly at process creation.
func spawnChild(cfg Config) (*child, error) {
	reqR, reqW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create request pipe: %w", err)
	}
	respR, respW, err := os.Pipe()
	if err != nil {
		reqR.Close()
		reqW.Close()
		return nil, fmt.Errorf("create response pipe: %w", err)
	}

	args := append([]string{RunnerModeFlag}, cfg.Args...)
	cmd := exec.Command(cfg.ClientExe, args...)
	cmd.ExtraFiles = []*os.File{reqR, respW}
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr

	if err := cmd.Start(); err != nil {
		reqR.Close()
		reqW.Close()
		respR.Close()
		respW.Close()
		return nil, fmt.Errorf("start %s: %w", cfg.ClientExe, err)
	}

	// The child inherited its own duplicates of reqR and respW; this
	// process only needs reqW (to send) and respR (to receive).
	reqR.Close()
	respW.Close()

	return &child{
		cmd:       cmd,
		transport: ipc.NewTimeoutTransport(respR, reqW, cfg.Timeout),
		reqW:      reqW,
		respR:     respR,
	}, nil
}
