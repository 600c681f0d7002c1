package dialect

import (
	"fmt"
	"strings"
)

// Kind selects the tracing tool the generated script is written for.
type Kind uint8

const (
	// Stap renders SystemTap process probes.
	Stap Kind = iota + 1
	// EBPF renders bpftrace uprobes.
	EBPF
)

func (k Kind) String() string {
	switch k {
	case Stap:
		return "stap"
	case EBPF:
		return "ebpf"
	case 0:
		return ""
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Kinds returns the names accepted by Parse.
func Kinds() []string {
	return []string{Stap.String(), EBPF.String()}
}

// Parse converts a dialect name to a Kind.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stap":
		return Stap, nil
	case "ebpf":
		return EBPF, nil
	default:
		return 0, fmt.Errorf("no such trace type: %q (expected %s)", s, strings.Join(Kinds(), "|"))
	}
}

// Set implements pflag.Value.
func (k *Kind) Set(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string {
	return "stap|ebpf"
}

// template returns the probe format for k; the first verb is the target
// path, the second the symbol name.
func (k Kind) template() (string, bool) {
	switch k {
	case Stap:
		return stapTemplate, true
	case EBPF:
		return ebpfTemplate, true
	default:
		return "", false
	}
}

const stapTemplate = `probe process("%s").function("%s").call {
    printf("probe: %%s", ppfunc());
    print_usyms(ucallers(-1));
}
`

const ebpfTemplate = `uprobe:%s:%s {
    if (pid > 0) {
        printf("probe: %%s\n%%s\n", probe, ustack(perf));
    }
}
`
