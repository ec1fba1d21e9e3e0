// Package relay wires registered assistant instances together through
// tmux panes: a registry file maps names to panes, and a Stop-hook check
// forwards addressed messages between them.
package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/smc/internal/model"
)

// Relay holds the directories a relay operates on. StateDir keeps the
// registry; ProjectsRoot is scanned for fresh transcripts.
type Relay struct {
	StateDir     string
	ProjectsRoot string
}

// InstanceInfo is one registered instance.
type InstanceInfo struct {
	Pane          string   `json:"pane"`
	RegisteredAt  string   `json:"registered_at"`
	LastMessageID string   `json:"last_message_id,omitempty"`
	SeenIDs       []string `json:"seen_ids"`
}

// Registry maps instance names to their pane bindings.
type Registry struct {
	Instances map[string]InstanceInfo `json:"instances"`
}

func (r *Relay) registryPath() string {
	return filepath.Join(r.StateDir, "relay.json")
}

// LoadRegistry reads the registry file; a missing or corrupt file yields
// an empty registry.
func (r *Relay) LoadRegistry() Registry {
	reg := Registry{Instances: map[string]InstanceInfo{}}
	data, err := os.ReadFile(r.registryPath())
	if err != nil {
		return reg
	}
	if err := json.Unmarshal(data, &reg); err != nil {
		return Registry{Instances: map[string]InstanceInfo{}}
	}
	if reg.Instances == nil {
		reg.Instances = map[string]InstanceInfo{}
	}
	return reg
}

// SaveRegistry writes the registry file, creating StateDir if needed.
func (r *Relay) SaveRegistry(reg Registry) error {
	if err := os.MkdirAll(r.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := os.WriteFile(r.registryPath(), data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Register binds a name to a tmux pane. With an empty pane the current
// tmux pane is auto-detected.
func (r *Relay) Register(w io.Writer, name, pane string) error {
	if pane == "" {
		out, err := exec.Command("tmux", "display-message", "-p", "#{pane_id}").Output()
		if err != nil {
			return fmt.Errorf("detect tmux pane: %w", err)
		}
		pane = strings.TrimSpace(string(out))
		if pane == "" {
			return fmt.Errorf("not in a tmux session, specify --pane manually")
		}
	}

	reg := r.LoadRegistry()
	reg.Instances[name] = InstanceInfo{
		Pane:         pane,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.SaveRegistry(reg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Registered '%s' -> tmux pane '%s'\n", name, pane)
	return nil
}

// Unregister removes a name from the registry.
func (r *Relay) Unregister(w io.Writer, name string) error {
	reg := r.LoadRegistry()
	if _, ok := reg.Instances[name]; !ok {
		fmt.Fprintf(w, "'%s' not found in registry\n", name)
		return nil
	}
	delete(reg.Instances, name)
	if err := r.SaveRegistry(reg); err != nil {
		return err
	}
	fmt.Fprintf(w, "Unregistered '%s'\n", name)
	return nil
}

// Status lists registered instances.
func (r *Relay) Status(w io.Writer) error {
	reg := r.LoadRegistry()
	if len(reg.Instances) == 0 {
		fmt.Fprintln(w, "No instances registered.")
		fmt.Fprintln(w, "\nRegister with: smc relay register <name> [--pane <tmux-pane>]")
		return nil
	}

	names := make([]string, 0, len(reg.Instances))
	for name := range reg.Instances {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Registered instances:")
	fmt.Fprintln(w)
	for _, name := range names {
		info := reg.Instances[name]
		ts := info.RegisteredAt
		if len(ts) > 19 {
			ts = ts[:19]
		}
		last := info.LastMessageID
		if last == "" {
			last = "none"
		}
		fmt.Fprintf(w, "  %-20s pane: %-10s registered: %s  last_msg: %s\n",
			name, info.Pane, ts, last)
	}
	return nil
}

// Send types a message into a registered instance's tmux pane. The text
// goes in literally, then Enter as a separate keypress so the receiving
// TUI has time to take the input.
func (r *Relay) Send(w io.Writer, to, message string) error {
	reg := r.LoadRegistry()
	target, ok := reg.Instances[to]
	if !ok {
		names := make([]string, 0, len(reg.Instances))
		for name := range reg.Instances {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("'%s' not registered, registered instances: %v", to, names)
	}

	if err := exec.Command("tmux", "send-keys", "-t", target.Pane, "-l", message).Run(); err != nil {
		return fmt.Errorf("tmux send-keys: %w", err)
	}
	time.Sleep(300 * time.Millisecond)
	if err := exec.Command("tmux", "send-keys", "-t", target.Pane, "Enter").Run(); err != nil {
		return fmt.Errorf("tmux send-keys enter: %w", err)
	}

	fmt.Fprintf(w, "Sent to '%s' (pane %s)\n", to, target.Pane)
	return nil
}

// Check scans the freshest transcripts for assistant messages addressed
// via "To:"/"MessageID:" lines and relays at most one new message to its
// registered target. Called by the Stop hook after every response.
func (r *Relay) Check(w io.Writer) error {
	reg := r.LoadRegistry()
	if len(reg.Instances) == 0 {
		return nil
	}

	myName := r.selfName(reg)

	for _, path := range r.recentTranscripts(5) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		lines := strings.Split(string(data), "\n")

		// Only the last 50 lines can hold a fresh message.
		checked := 0
		for i := len(lines) - 1; i >= 0 && checked < 50; i-- {
			checked++
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}
			record, err := model.Parse([]byte(line))
			if err != nil || record.Kind != model.KindAssistant {
				continue
			}
			msg := record.AsMessageRecord()
			if msg == nil {
				continue
			}

			text := msg.TextContent()
			toName := ExtractToField(text)
			if toName == "" || toName == myName {
				continue
			}
			target, ok := reg.Instances[toName]
			if !ok {
				continue
			}

			msgID := ExtractMessageID(text)
			if msgID != "" && contains(target.SeenIDs, msgID) {
				continue
			}

			notification := "new message from the other claude. check smc search"
			if msgID != "" {
				notification = fmt.Sprintf("new message from the other claude. run: smc search %q", msgID)
			}

			if err := exec.Command("tmux", "send-keys", "-t", target.Pane, "-l", notification).Run(); err != nil {
				continue
			}
			time.Sleep(300 * time.Millisecond)
			if err := exec.Command("tmux", "send-keys", "-t", target.Pane, "Enter").Run(); err != nil {
				continue
			}

			if msgID != "" {
				fresh := r.LoadRegistry()
				if instance, ok := fresh.Instances[toName]; ok {
					instance.LastMessageID = msgID
					instance.SeenIDs = append(instance.SeenIDs, msgID)
					if len(instance.SeenIDs) > 100 {
						instance.SeenIDs = instance.SeenIDs[len(instance.SeenIDs)-100:]
					}
					fresh.Instances[toName] = instance
					if err := r.SaveRegistry(fresh); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(w, "Relayed to '%s'\n", toName)
			return nil
		}
	}
	return nil
}

// selfName resolves which registered instance this process is, by pane,
// so it never relays its own outgoing messages back to itself.
func (r *Relay) selfName(reg Registry) string {
	pane := os.Getenv("TMUX_PANE")
	if pane == "" {
		out, err := exec.Command("tmux", "display-message", "-p", "#{pane_id}").Output()
		if err != nil {
			return ""
		}
		pane = strings.TrimSpace(string(out))
	}
	if pane == "" {
		return ""
	}
	for name, info := range reg.Instances {
		if info.Pane == pane {
			return name
		}
	}
	return ""
}

// recentTranscripts returns up to n .jsonl paths under ProjectsRoot,
// newest modification first.
func (r *Relay) recentTranscripts(n int) []string {
	type fileTime struct {
		path string
		mod  time.Time
	}
	var found []fileTime

	_ = filepath.WalkDir(r.ProjectsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, fileTime{path: path, mod: info.ModTime()})
		return nil
	})

	sort.Slice(found, func(i, j int) bool { return found[i].mod.After(found[j].mod) })
	if len(found) > n {
		found = found[:n]
	}
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// cleanLine strips markdown bold markers and surrounding whitespace.
func cleanLine(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(line), "*", ""))
}

// ExtractToField pulls the addressee from a "To: <name>" line.
func ExtractToField(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		if rest, ok := strings.CutPrefix(cleaned, "To:"); ok {
			if name := strings.TrimSpace(rest); name != "" {
				return name
			}
		}
	}
	return ""
}

// ExtractMessageID pulls the ID from a "MessageID: <id>" line.
func ExtractMessageID(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		if rest, ok := strings.CutPrefix(cleaned, "MessageID:"); ok {
			if id := strings.TrimSpace(rest); id != "" {
				return id
			}
		}
	}
	return ""
}
