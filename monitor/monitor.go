// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package monitor serves an HTTP API to drive a bench interactively.
//
//	GET  /api/state              current sample
//	POST /api/reset?cycles=N     reset sequence
//	POST /api/tick?n=N           apply N clock edges
//	PUT  /api/control            set inputs, JSON body (see Inputs)
//	POST /api/scenario/{name}    run a built-in scenario
//	GET  /api/resource           process CPU and memory usage
//
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/counter"
	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/process"
)

// MaxTicks caps the number of edges applied by a single tick request.
//
const MaxTicks = 1 << 16

// Inputs is the body of a control request. Nil fields leave the
// corresponding input unchanged.
//
type Inputs struct {
	RstN *bool  `json:"rst_n,omitempty"`
	Ena  *bool  `json:"ena,omitempty"`
	LP   *bool  `json:"lp,omitempty"`
	CP   *bool  `json:"cp,omitempty"`
	EP   *bool  `json:"ep,omitempty"`
	CLR  *bool  `json:"clr,omitempty"`
	Data *uint8 `json:"data,omitempty"`
}

// State is the response to state, reset, tick and control requests.
//
type State struct {
	bench.Sample
	Signals string `json:"control"`
	Value   uint8  `json:"value"`
}

type scenarioRsp struct {
	Scenario string `json:"scenario"`
	Passed   bool   `json:"passed"`
	Edges    int    `json:"edges"`
	Error    string `json:"error,omitempty"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

// Monitor serializes access to a bench from HTTP handlers.
//
type Monitor struct {
	mu  sync.Mutex
	b   *bench.Bench
	log logr.Logger
}

// New returns a monitor driving b.
//
func New(b *bench.Bench, log logr.Logger) *Monitor {
	return &Monitor{b: b, log: log}
}

// Handler returns the API router.
//
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/tick", m.tick).Methods(http.MethodPost)
	r.HandleFunc("/api/control", m.control).Methods(http.MethodPut)
	r.HandleFunc("/api/scenario/{name}", m.scenario).Methods(http.MethodPost)
	r.HandleFunc("/api/resource", m.resource).Methods(http.MethodGet)
	return r
}

// Listen opens a TCP listener on addr. Port 0 picks a random port.
//
func Listen(addr string) (net.Listener, string, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrap(err, "listen")
	}
	url := fmt.Sprintf("http://localhost:%d", l.Addr().(*net.TCPAddr).Port)
	return l, url, nil
}

// Serve serves the API on l until ctx is done.
//
func (m *Monitor) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: m.Handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(l) }()
	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

// snapshot reports the control word as driven on ui_in.
func (m *Monitor) snapshot() State {
	s := m.b.Sample()
	return State{Sample: s, Signals: counter.Decode(s.Control).String(), Value: m.b.Output()}
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.log.Error(err, "write response")
	}
}

func (m *Monitor) writeState(w http.ResponseWriter) {
	m.writeJSON(w, m.snapshot())
}

func intParam(r *http.Request, name string, def, max int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > max {
		return 0, errors.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeState(w)
}

func (m *Monitor) reset(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "cycles", 0, MaxTicks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.b.Reset(n)
	m.writeState(w)
}

func (m *Monitor) tick(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 1, MaxTicks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.b.ClockCycles(n)
	m.writeState(w)
}

func (m *Monitor) control(w http.ResponseWriter, r *http.Request) {
	var in Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	ctl := counter.Decode(m.b.Sample().Control)
	set(&ctl.LP, in.LP)
	set(&ctl.CP, in.CP)
	set(&ctl.EP, in.EP)
	set(&ctl.CLR, in.CLR)
	m.b.SetControl(ctl)
	if in.Ena != nil {
		m.b.SetEnable(*in.Ena)
	}
	if in.RstN != nil {
		m.b.SetRstN(*in.RstN)
	}
	if in.Data != nil {
		m.b.SetLoadData(*in.Data)
	}
	m.writeState(w)
}

func (m *Monitor) scenario(w http.ResponseWriter, r *http.Request) {
	s, err := bench.Lookup(mux.Vars(r)["name"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err = m.b.Run(r.Context(), s)
	rsp := scenarioRsp{Scenario: s.Name, Passed: err == nil, Edges: m.b.Edge() + 1}
	if err != nil {
		if !bench.IsMismatch(err) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rsp.Error = err.Error()
	}
	m.writeJSON(w, rsp)
}

func (m *Monitor) resource(w http.ResponseWriter, _ *http.Request) {
	rsp, err := readResources()
	if err != nil {
		m.log.Error(err, "read process stats")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	m.writeJSON(w, rsp)
}

func readResources() (rsp resourceRsp, err error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return rsp, errors.Wrap(err, "find process")
	}
	if rsp.CPUPercent, err = p.CPUPercent(); err != nil {
		return rsp, errors.Wrap(err, "cpu usage")
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return rsp, errors.Wrap(err, "memory usage")
	}
	rsp.MemorySize = mem.RSS
	return rsp, nil
}
