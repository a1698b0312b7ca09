package site

import (
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// PreviewHandler serves an exported directory under basePath.
func PreviewHandler(dir, basePath string) http.Handler {
	base := NormalizeBasePath(basePath)
	fs := http.FileServer(http.Dir(dir))
	if base == "" {
		return fs
	}
	mux := http.NewServeMux()
	mux.Handle(base+"/", http.StripPrefix(base, fs))
	mux.Handle("/", http.RedirectHandler(base+"/", http.StatusFound))
	return mux
}

// Preview starts a local HTTP file server for an exported site.
func Preview(dir, basePath string, port int, open bool) error {
	addr := fmt.Sprintf(":%d", port)
	url := fmt.Sprintf("http://localhost:%d%s/", port, NormalizeBasePath(basePath))

	if open {
		go openBrowser(url)
	}
	slog.Info("serving exported site", "url", url, "dir", dir)

	srv := &http.Server{
		Addr:              addr,
		Handler:           PreviewHandler(dir, basePath),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
