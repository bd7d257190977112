// Package monitoring serves a recorded timeline over HTTP so that it can be
// inspected while the owning process is still running, or after loading a
// profile database back from disk.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/rangeprof/profiling"
)

// A Viewer turns a set of timeline records into a small web server.
type Viewer struct {
	portNumber  int
	openBrowser bool

	recordsLock sync.Mutex
	records     []profiling.RangeRecord
}

// NewViewer creates a new Viewer.
func NewViewer() *Viewer {
	return &Viewer{}
}

// WithPortNumber sets the port the viewer listens on.
func (v *Viewer) WithPortNumber(portNumber int) *Viewer {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the timeline viewer, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	v.portNumber = portNumber

	return v
}

// WithBrowserLaunch makes StartServer open the local browser on the served
// address.
func (v *Viewer) WithBrowserLaunch() *Viewer {
	v.openBrowser = true

	return v
}

// RegisterRecords replaces the records served by the viewer.
func (v *Viewer) RegisterRecords(records []profiling.RangeRecord) {
	v.recordsLock.Lock()
	defer v.recordsLock.Unlock()

	v.records = records
}

// StartServer starts the viewer as a web server. It returns the address the
// server is listening on.
func (v *Viewer) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/timeline", v.listTimeline)
	r.HandleFunc("/api/resource", v.listResources)
	r.HandleFunc("/", v.serveIndex)
	http.Handle("/", r)

	actualPort := ":0"
	if v.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(v.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Serving timeline at %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if v.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %v\n", err)
		}
	}

	return url
}

func (v *Viewer) listTimeline(w http.ResponseWriter, _ *http.Request) {
	v.recordsLock.Lock()
	records := v.records
	v.recordsLock.Unlock()

	bytes, err := json.Marshal(records)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (v *Viewer) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>rangeprof timeline</title></head>
<body>
<h1>rangeprof timeline</h1>
<p>Range records are served at <a href="/api/timeline">/api/timeline</a>.</p>
<p>Process resources are served at <a href="/api/resource">/api/resource</a>.</p>
</body>
</html>
`

func (v *Viewer) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	_, err := w.Write([]byte(indexPage))
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
