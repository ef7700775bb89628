package app

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// NormalizeLocalViewer keeps the viewer on localhost and returns the
// listen addr, browser URL and TCP check addr.
func NormalizeLocalViewer(cfgAddr string) (listenAddr string, url string, tcpAddr string) {
	a := strings.TrimSpace(cfgAddr)

	if strings.HasPrefix(a, ":") {
		a = "127.0.0.1" + a
	}
	if strings.HasPrefix(a, "0.0.0.0:") {
		a = "127.0.0.1:" + strings.TrimPrefix(a, "0.0.0.0:")
	}

	listenAddr = a
	url = "http://" + a
	tcpAddr = a
	return
}

// WaitTCP polls addr until it accepts a connection or timeout passes.
func WaitTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			_ = c.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func logBanner(dir, cfgPath string) {
	log.Info("────────────────────────────────────────")
	log.Info("CodeStudio workspace")
	log.Infof(" Folder      : %s", dir)
	log.Infof(" Config file : %s", cfgPath)
	log.Info(" Files live in memory; only the recent list and")
	log.Info(" run history are kept in this folder.")
	log.Info("────────────────────────────────────────")
}
