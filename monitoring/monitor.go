// Package monitoring serves a running timeline over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/chartline/player"
	"github.com/sarchlab/chartline/timeline"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a player into a server that allows external monitoring and
// controlling of the timeline.
type Monitor struct {
	player      *player.Player
	metrics     http.Handler
	portNumber  int
	openBrowser bool
	pageDir     string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor in the default browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// WithPageDir serves the monitor page from a directory instead of the copy
// built into the binary.
func (m *Monitor) WithPageDir(dir string) *Monitor {
	m.pageDir = dir
	return m
}

// RegisterPlayer registers the player that owns the timeline.
func (m *Monitor) RegisterPlayer(p *player.Player) {
	m.player = p
}

// RegisterMetrics mounts a Prometheus handler at /metrics.
func (m *Monitor) RegisterMetrics(h http.Handler) {
	m.metrics = h
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// TrackPlayback creates a progress bar that follows the clock of the player
// from start to end.
func (m *Monitor) TrackPlayback(name string, start, end int64) *ProgressBar {
	bar := m.CreateProgressBar(name, uint64(max(end-start, 0)))
	bar.follow = func() uint64 {
		return uint64(min(max(m.player.Now()-start, 0), end-start))
	}

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continuePlayback)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/seek/{ms}", m.seek)
	r.HandleFunc("/api/segments", m.listSegments)
	r.HandleFunc("/api/segment/{id}", m.segmentDetails)
	r.HandleFunc("/api/triggers", m.listTriggers)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	if m.metrics != nil {
		r.Handle("/metrics", m.metrics)
	}

	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(m.pageServer())

	return r
}

// StartServer starts the monitor as a web server and returns the URL it
// listens on.
func (m *Monitor) StartServer() string {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring timeline with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return url
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.player.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continuePlayback(w http.ResponseWriter, _ *http.Request) {
	m.player.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d,\"paused\":%t}",
		m.player.Now(), m.player.IsPaused())
}

func (m *Monitor) seek(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseInt(mux.Vars(r)["ms"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	m.player.Seek(ms)
	m.now(w, r)
}

type segmentRsp struct {
	ID       int     `json:"id"`
	Start    int64   `json:"start"`
	End      int64   `json:"end"`
	Dynamic  bool    `json:"dynamic"`
	Active   bool    `json:"active"`
	Progress float64 `json:"progress"`
}

func (m *Monitor) listSegments(w http.ResponseWriter, _ *http.Request) {
	var rsp []segmentRsp

	m.player.Do(func(
		segs *timeline.SegmentManager,
		_ *timeline.TriggerManager,
	) {
		rsp = make([]segmentRsp, 0, segs.Len())
		for _, s := range segs.Segments() {
			rsp = append(rsp, segmentRsp{
				ID:       s.ID(),
				Start:    s.StartTime(),
				End:      s.EndTime(),
				Dynamic:  s.IsDynamic(),
				Active:   segs.IsActive(s.ID()),
				Progress: s.Progress(segs.CurrentTime()),
			})
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) segmentDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	m.player.Do(func(
		segs *timeline.SegmentManager,
		_ *timeline.TriggerManager,
	) {
		s, ok := segs.TryGetSegment(id)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, err := w.Write([]byte("Segment not found"))
			dieOnErr(err)

			return
		}

		serializer := goseth.NewSerializer()
		serializer.SetRoot(s)
		serializer.SetMaxDepth(1)
		err := serializer.Serialize(w)

		dieOnErr(err)
	})
}

type triggerRsp struct {
	ID      int   `json:"id"`
	Time    int64 `json:"time"`
	Dynamic bool  `json:"dynamic"`
	Passed  bool  `json:"passed"`
}

func (m *Monitor) listTriggers(w http.ResponseWriter, _ *http.Request) {
	var rsp []triggerRsp

	m.player.Do(func(
		_ *timeline.SegmentManager,
		trigs *timeline.TriggerManager,
	) {
		vertices := trigs.Vertices()
		rsp = make([]triggerRsp, 0, len(vertices))

		for _, v := range vertices {
			rsp = append(rsp, triggerRsp{
				ID:      v.ID(),
				Time:    v.Time(),
				Dynamic: v.IsDynamic(),
				Passed:  trigs.IsPassed(v.ID()),
			})
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	for _, b := range m.progressBars {
		b.refresh()
	}

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
