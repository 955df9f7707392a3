// Command synctreectl is a command-line harness for exercising the
// synctree core in-process: it wires EditManager, the fake sequencer,
// and counterfield together the way the teacher's cmd/repl wired db.DB
// up to a real or local noms database, minus any persistent storage --
// this module's scope stops at the rebase algebra, so there is nothing
// to load from or save to between invocations. Every run is a
// self-contained scenario: N sessions each submit a handful of local
// changes through a shared in-process sequencer, and the tool prints
// the resulting trunk log and a convergence check.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/shortuuid"
	"github.com/mgutz/ansi"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/synctreeio/synctree/config"
	"github.com/synctreeio/synctree/counterfield"
	"github.com/synctreeio/synctree/editmgr"
	"github.com/synctreeio/synctree/graph"
	"github.com/synctreeio/synctree/internal/rlog"
	"github.com/synctreeio/synctree/rebase"
	"github.com/synctreeio/synctree/revtag"
	"github.com/synctreeio/synctree/sequencer"
)

func main() {
	impl(os.Args[1:], os.Stdout, os.Stderr, os.Exit)
}

func impl(args []string, out, errs io.Writer, exit func(int)) {
	app := kingpin.New("synctreectl", "Exercise the synctree rebase core with a simulated set of peers.")
	app.ErrorWriter(errs)
	app.UsageWriter(errs)
	app.Terminate(exit)

	verbose := app.Flag("verbose", "Log each commit as it's integrated.").Short('v').Bool()
	cfgPath := app.Flag("config", "Path to a synctree.toml configuration file.").Default("synctree.toml").String()

	demo(app, out, errs, verbose, cfgPath)
	rebasePreview(app, out)

	if len(args) == 0 {
		app.Usage(args)
		return
	}
	if _, err := app.Parse(args); err != nil {
		fmt.Fprintln(errs, err.Error())
		exit(1)
	}
}

// peerSpec is one "--peer session=delta,delta,delta" flag occurrence.
type peerSpec struct {
	session string
	deltas  []int
}

func parsePeerSpec(raw string) (peerSpec, error) {
	name, rest, ok := strings.Cut(raw, "=")
	if !ok || name == "" {
		return peerSpec{}, fmt.Errorf("peer spec %q must be of the form session=delta[,delta...]", raw)
	}
	spec := peerSpec{session: name}
	for _, field := range strings.Split(rest, ",") {
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return peerSpec{}, fmt.Errorf("peer spec %q: %w", raw, err)
		}
		spec.deltas = append(spec.deltas, n)
	}
	return spec, nil
}

// peerSpecs implements kingpin.Value so --peer can repeat.
type peerSpecs []peerSpec

func (p *peerSpecs) Set(raw string) error {
	spec, err := parsePeerSpec(raw)
	if err != nil {
		return err
	}
	*p = append(*p, spec)
	return nil
}

func (p *peerSpecs) String() string {
	parts := make([]string, len(*p))
	for i, s := range *p {
		parts[i] = s.session
	}
	return strings.Join(parts, ",")
}

func (p *peerSpecs) IsCumulative() bool { return true }

func demo(parent *kingpin.Application, out, errs io.Writer, verbose *bool, cfgPath *string) {
	kc := parent.Command("demo", "Run a simulated multi-peer editing session and print the converged trunk.")
	var peers peerSpecs
	kc.Flag("peer", "A peer session and its local changes, e.g. --peer alice=3,-1 --peer bob=10").SetValue(&peers)
	kc.Action(func(_ *kingpin.ParseContext) error {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		rlog.Init(rlog.Options{})

		if len(peers) == 0 {
			peers = peerSpecs{
				{session: "alice", deltas: []int{3, -1}},
				{session: "bob", deltas: []int{10}},
			}
		}

		if *verbose {
			fmt.Fprintf(out, "config: session=%s require-related-branches=%v\n", cfg.Session.ID, cfg.Rebase.RequireRelatedBranches)
		}

		root := graph.NewRoot[counterfield.Change](0)
		r := counterfield.Rebaser{}
		seq := sequencer.New[counterfield.Change]()

		managers := make(map[string]*editmgr.EditManager[counterfield.Change], len(peers))
		for _, p := range peers {
			managers[p.session] = editmgr.New[counterfield.Change](r, root, p.session)
		}
		for _, p := range peers {
			session := p.session
			em := managers[session]
			seq.Subscribe(session, func(commit rebase.TaggedChange[counterfield.Change], n, ref int64, originator string, isLocal bool) {
				if err := em.AddSequencedChange(commit, editmgr.SequenceNumber(n), editmgr.SequenceNumber(ref), 0, originator, isLocal); err != nil {
					fmt.Fprintf(errs, "%s: %v\n", session, err)
				}
			})
		}

		for _, p := range peers {
			em := managers[p.session]
			for _, delta := range p.deltas {
				commit, err := em.SubmitLocalChange(counterfield.Change(delta))
				if err != nil {
					return err
				}
				seq.Submit(p.session, commit.Tagged(), 0)
				if *verbose {
					fmt.Fprintf(out, "%s submitted %s (%s)\n", p.session, formatDelta(delta), shortuuid.New())
				}
			}
		}

		sessions := make([]string, 0, len(managers))
		for s := range managers {
			sessions = append(sessions, s)
		}
		sort.Strings(sessions)

		var first []counterfield.Change
		for i, s := range sessions {
			em := managers[s]
			trunk := em.GetTrunkChanges()
			var sum counterfield.Change
			values := make([]counterfield.Change, len(trunk))
			for j, c := range trunk {
				sum += c.Change()
				values[j] = c.Change()
			}
			fmt.Fprintf(out, "%s: trunk=%v sum=%s\n", s, values, colorDelta(int(sum)))
			if i == 0 {
				first = values
			} else if !equalChanges(first, values) {
				fmt.Fprintln(out, ansi.Color("WARNING: trunk content diverged between sessions", "red"))
			}
		}
		return nil
	})
}

func equalChanges(a, b []counterfield.Change) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatDelta(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func colorDelta(n int) string {
	text := strconv.Itoa(n)
	if n < 0 {
		return ansi.Color(text, "red")
	}
	return ansi.Color(text, "green")
}

// rebasePreview demonstrates a single RebaseBranch call against two
// small integer deltas, the simplest instance of the rebase axioms
// L1-L9 (spec.md §8 scenario 1) a reader can inspect without standing
// up multiple sessions.
func rebasePreview(parent *kingpin.Application, out io.Writer) {
	kc := parent.Command("rebase-preview", "Show a single local delta rebased over a single trunk delta.")
	local := kc.Arg("local", "the local delta to rebase").Required().Int()
	trunk := kc.Arg("trunk", "the trunk delta to rebase onto").Required().Int()
	kc.Action(func(_ *kingpin.ParseContext) error {
		root := graph.NewRoot[counterfield.Change](0)
		trunkCommit := graph.New[counterfield.Change](counterfield.Change(*trunk), revtag.New(), root)
		localCommit := graph.New[counterfield.Change](counterfield.Change(*local), revtag.New(), root)

		result, err := graph.RebaseBranch[counterfield.Change](counterfield.Rebaser{}, localCommit, trunkCommit, nil, graph.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "rebased local delta now totals %s atop trunk\n", colorDelta(int(result.NewSourceHead.Change())))
		return nil
	})
}
