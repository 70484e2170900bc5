// Command shockctl is the CLI front end (spec §6 "CLI / environment ...
// out of core"): load a movie, drive its frame loop for a number of
// ticks, and dump chunk/VM state. Grounded on cmd/barn/main.go's flat
// flag.String/flag.Int/flag.Bool style and its inspection-flag dispatch
// (verb-code/list-verbs/obj-info), generalized from MOO object/verb
// inspection to Director chunk/handler inspection.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"libreshockwave/internal/builtins"
	"libreshockwave/internal/config"
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/diag"
	"libreshockwave/internal/lingo"
	"libreshockwave/internal/netmgr"
	"libreshockwave/internal/resolver"
	"libreshockwave/internal/score"
	"libreshockwave/internal/trace"
)

func main() {
	moviePath := flag.String("movie", "", "Path to a container file (.dir/.dcr/.cct)")
	configPath := flag.String("config", "", "Path to a YAML config file (internal/config.Config)")
	ticks := flag.Int("ticks", 1, "Number of frame-loop ticks to run")
	dumpHandler := flag.String("dump-handler", "", "Disassemble castLib:memberNumber:handlerName instead of running")
	traceEnabled := flag.Bool("trace", false, "Enable the VM debug facet")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob over handler names, e.g. 'on*')")
	watch := flag.Bool("watch", false, "Re-run whenever -movie changes on disk")
	flag.Parse()

	if *moviePath == "" {
		log.Fatal("shockctl: -movie is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("shockctl: %v", err)
	}

	var filters []string
	if *traceFilter != "" {
		filters = strings.Split(*traceFilter, ",")
	}
	tracer := trace.New(*traceEnabled, filters, os.Stderr)

	run := func() {
		if err := runOnce(*moviePath, cfg, tracer, *ticks, *dumpHandler); err != nil {
			log.Printf("shockctl: %v", err)
		}
	}

	run()
	if !*watch {
		return
	}
	watchAndRerun(*moviePath, run)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFile(path)
}

func runOnce(moviePath string, cfg *config.Config, tracer *trace.Tracer, ticks int, dumpHandlerSpec string) error {
	data, err := os.ReadFile(moviePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", moviePath, err)
	}
	store, err := container.Load(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", moviePath, err)
	}
	if cfg.ChannelCount != 0 && store.Config != nil {
		store.Config.ChannelCount = cfg.ChannelCount
	}

	if dumpHandlerSpec != "" {
		return dumpHandler(store, dumpHandlerSpec)
	}

	sink := diag.NewLogSink()
	vm := lingo.New(datum.NewSymbolTable(), sink)
	vm.StepBudget = cfg.StepBudget
	vm.AncestorDepthLimit = cfg.AncestorDepthLimit
	vm.StringChunkItemDelimiter = cfg.Delimiter()
	vm.Debug = tracer

	net := netmgr.New(cfg.BaseURL, nil)
	builtins.Register(vm, net)

	sc := findScore(store)
	if sc == nil {
		return fmt.Errorf("movie has no Score chunk")
	}
	labels := findFrameLabels(store)
	movieScripts := findMovieScripts(store)

	nav := score.New(vm, store, sc, labels, movieScripts, nil)
	for i := 0; i < ticks; i++ {
		nav.Tick()
		log.Printf("shockctl: tick %d -> frame %d", i+1, nav.CurrentFrame())
	}
	return nil
}

func findScore(store *container.Store) *container.ScoreInfo {
	for _, tag := range []string{"VWSC", "SCVW"} {
		for _, c := range store.ByTag(tag) {
			if sc, ok := c.Payload.(*container.ScoreInfo); ok {
				return sc
			}
		}
	}
	return nil
}

func findFrameLabels(store *container.Store) *container.FrameLabelsInfo {
	for _, c := range store.ByTag("VWLB") {
		if lbl, ok := c.Payload.(*container.FrameLabelsInfo); ok {
			return lbl
		}
	}
	return nil
}

func findMovieScripts(store *container.Store) []*container.ScriptInfo {
	var out []*container.ScriptInfo
	for _, c := range store.ByTag("Lscr") {
		s, ok := c.Payload.(*container.ScriptInfo)
		if ok && s.Type == container.ScriptTypeMovie {
			out = append(out, s)
		}
	}
	return out
}

// dumpHandler implements -dump-handler castLib:memberNumber:handlerName:
// resolve the behaviour's script through the same resolver chain the
// Score navigator uses, then print its bytecode one instruction per
// line (spec §4.2 "Instruction shape").
func dumpHandler(store *container.Store, spec string) error {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return fmt.Errorf("-dump-handler wants castLib:memberNumber:handlerName, got %q", spec)
	}
	castLib, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("bad castLib %q: %w", parts[0], err)
	}
	memberNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("bad memberNumber %q: %w", parts[1], err)
	}
	handlerName := parts[2]

	member, _, ok := resolver.ByNumber(store, castLib, memberNumber)
	if !ok {
		return fmt.Errorf("no cast member %d:%d", castLib, memberNumber)
	}
	script, ok := resolver.Script(store, member)
	if !ok {
		return fmt.Errorf("cast member %d:%d has no script", castLib, memberNumber)
	}
	h, ok := script.HandlerNamed(handlerName)
	if !ok {
		return fmt.Errorf("script has no handler %q", handlerName)
	}

	for _, ins := range h.Instructions {
		fmt.Printf("%4d  %-18s %d\n", ins.Offset, ins.Opcode.String(), ins.Argument)
	}
	return nil
}

// watchAndRerun follows cmd/barn/main.go's pattern of a flat, explicit
// control-flow main loop rather than a goroutine pool: one fsnotify
// watcher, one blocking select, re-running run on every write event.
func watchAndRerun(path string, run func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("shockctl: fsnotify: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		log.Fatalf("shockctl: watch %s: %v", path, err)
	}

	log.Printf("shockctl: watching %s for changes", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Printf("shockctl: %s changed, re-running", ev.Name)
				run()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("shockctl: watch error: %v", err)
		}
	}
}
