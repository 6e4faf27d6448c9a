package schematic

import (
	"os"
	"strings"

	cerrors "github.com/circed/circed/pkg/errors"
	"github.com/circed/circed/pkg/netgraph"
)

// Netlist renders the SPICE netlist for the document. Nets are named per
// [Document.Nets]; a port left unconnected gets a private nc_ node so the
// line stays well formed.
func (d *Document) Netlist() string {
	var sb strings.Builder
	sb.WriteString("Netlist created by circed\n")
	sb.WriteString(".model MOSN NMOS level=1\n")
	sb.WriteString(".model MOSP PMOS level=1\n")

	netOf := d.portNetNames()
	lines := 0
	for _, inst := range d.table.all() {
		desg := inst.Designator
		line := inst.SpiceLine(func(port string) string {
			if name, ok := netOf[desg+"/"+port]; ok {
				return name
			}
			return "nc_" + desg + "_" + port
		})
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		lines++
	}
	if lines == 0 {
		// Give the simulator something so it does not hang on an empty deck.
		sb.WriteString("V_0 0 n1 0\n")
	}
	return sb.String()
}

// WriteNetlist writes the netlist to path, conventionally a .cir file.
func (d *Document) WriteNetlist(path string) error {
	if err := cerrors.ValidateSnapshotPath(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(d.Netlist()), 0o644)
}

// portNetNames maps "designator/port" to the containing net's name.
func (d *Document) portNetNames() map[string]string {
	byVertex := make(map[netgraph.VertexID]string)
	for _, net := range d.Nets() {
		for _, id := range net.Vertices {
			byVertex[id] = net.Name
		}
	}
	out := make(map[string]string)
	for _, v := range d.graph.Vertices() {
		if v.Role != netgraph.RolePort {
			continue
		}
		if name, ok := byVertex[v.ID]; ok {
			out[v.Device+"/"+v.Port] = name
		}
	}
	return out
}
