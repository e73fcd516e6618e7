package oid

import (
	"strconv"
)

// Printer MIB (RFC 3805) identifiers used by the walk engine and the typed
// getters below. PrinterMIB is the subtree root every walked variable must
// live under.
var (
	PrinterMIB = OID{1, 3, 6, 1, 2, 1, 43}

	PrinterGeneralSerialNumber = NewOID("1.3.6.1.2.1.43.5.1.1.17.1")

	PrinterCoverDescription = NewOID("1.3.6.1.2.1.43.6.1.1.2.1")
	PrinterCoverStatus      = NewOID("1.3.6.1.2.1.43.6.1.1.3.1")

	PrinterInputMaxCapacity  = NewOID("1.3.6.1.2.1.43.8.2.1.9.1")
	PrinterInputCurrentLevel = NewOID("1.3.6.1.2.1.43.8.2.1.10.1")
	PrinterInputStatus       = NewOID("1.3.6.1.2.1.43.8.2.1.11.1")
	PrinterInputName         = NewOID("1.3.6.1.2.1.43.8.2.1.13.1")

	PrinterOutputMaxCapacity       = NewOID("1.3.6.1.2.1.43.9.2.1.4.1")
	PrinterOutputRemainingCapacity = NewOID("1.3.6.1.2.1.43.9.2.1.5.1")
	PrinterOutputStatus            = NewOID("1.3.6.1.2.1.43.9.2.1.6.1")
	PrinterOutputName              = NewOID("1.3.6.1.2.1.43.9.2.1.7.1")

	PrinterMarkerSuppliesClass       = NewOID("1.3.6.1.2.1.43.11.1.1.4.1")
	PrinterMarkerSuppliesType        = NewOID("1.3.6.1.2.1.43.11.1.1.5.1")
	PrinterMarkerSuppliesDescription = NewOID("1.3.6.1.2.1.43.11.1.1.6.1")
	PrinterMarkerSuppliesSupplyUnit  = NewOID("1.3.6.1.2.1.43.11.1.1.7.1")
	PrinterMarkerSuppliesMaxCapacity = NewOID("1.3.6.1.2.1.43.11.1.1.8.1")
	PrinterMarkerSuppliesLevel       = NewOID("1.3.6.1.2.1.43.11.1.1.9.1")

	PrinterMarkerColorantValue = NewOID("1.3.6.1.2.1.43.12.1.1.4.1")
)

// GetSerialNumber returns prtGeneralSerialNumber, if present.
func (vs *VariableSet) GetSerialNumber() (string, bool) {
	return vs.GetValue(PrinterGeneralSerialNumber)
}

// coverStatusNames maps PrtCoverStatusTC values to their textual convention.
var coverStatusNames = map[string]string{
	"1": "other",
	"2": "unknown",
	"3": "coverOpen",
	"4": "coverClosed",
	"5": "interlockOpen",
	"6": "interlockClosed",
}

// Cover describes one row of the prtCover table.
type Cover struct {
	Index       uint
	Description string
	Status      string
}

// Open reports whether the cover or its interlock is open.
func (c Cover) Open() bool {
	return c.Status == "coverOpen" || c.Status == "interlockOpen"
}

// GetCovers decodes the prtCover table from a walked variable set. The
// description and status columns must have matching row counts.
func (vs *VariableSet) GetCovers() ([]Cover, bool) {
	descriptions := vs.GetSubtree(PrinterCoverDescription).Variables()
	statuses := vs.GetSubtree(PrinterCoverStatus).Variables()
	if len(descriptions) < 1 || len(descriptions) != len(statuses) {
		return nil, false
	}

	covers := make([]Cover, 0, len(descriptions))
	for i := range descriptions {
		name := descriptions[i].Name
		status, ok := coverStatusNames[statuses[i].Value]
		if !ok {
			status = "unknown"
		}
		covers = append(covers, Cover{
			Index:       name[len(name)-1],
			Description: descriptions[i].Value,
			Status:      status,
		})
	}
	return covers, true
}

// Subunit status bits shared by the prtInput and prtOutput tables
// (PrtSubUnitStatusTC).
const (
	subUnitUnavailable      = 1
	subUnitBroken           = 3
	subUnitReasonUnknown    = 5
	subUnitNonCritical      = 8
	subUnitCritical         = 16
	subUnitOffline          = 32
	subUnitTransitioning    = 64
	subUnitAvailabilityMask = 7
)

// InputTray describes one row of the prtInput table.
type InputTray struct {
	Index        uint
	Name         string
	Broken       bool
	Offline      bool
	Empty        bool
	LevelPercent int // -1 when the tray does not report capacity
}

// GetInputTrays decodes the prtInput table from a walked variable set.
func (vs *VariableSet) GetInputTrays() ([]InputTray, bool) {
	maxima := vs.GetSubtree(PrinterInputMaxCapacity).Variables()
	levels := vs.GetSubtree(PrinterInputCurrentLevel).Variables()
	statuses := vs.GetSubtree(PrinterInputStatus).Variables()
	names := vs.GetSubtree(PrinterInputName).Variables()
	if len(maxima) < 1 ||
		len(maxima) != len(levels) ||
		len(maxima) != len(statuses) ||
		len(maxima) != len(names) {
		return nil, false
	}

	trays := make([]InputTray, 0, len(maxima))
	for i := range maxima {
		status, err := strconv.ParseUint(statuses[i].Value, 10, 8)
		if err != nil {
			return nil, false
		}
		max, err := strconv.ParseInt(maxima[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}
		level, err := strconv.ParseInt(levels[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}

		name := statuses[i].Name
		tray := InputTray{
			Index:        name[len(name)-1],
			Name:         names[i].Value,
			LevelPercent: -1,
		}
		if status&subUnitUnavailable != 0 {
			switch status & subUnitAvailabilityMask {
			case subUnitBroken, subUnitReasonUnknown:
				tray.Broken = true
			}
		}
		if status&subUnitCritical != 0 {
			tray.Broken = true
		}
		if status&subUnitOffline != 0 {
			tray.Offline = true
		}
		if max >= 0 && level >= 0 {
			tray.Empty = level == 0
			if max > 0 {
				tray.LevelPercent = int(100 * level / max)
			}
		}
		trays = append(trays, tray)
	}
	return trays, true
}

// OutputBin describes one row of the prtOutput table.
type OutputBin struct {
	Index        uint
	Name         string
	Broken       bool
	Offline      bool
	Full         bool
	LevelPercent int // fill level; -1 when the bin does not report capacity
}

// GetOutputBins decodes the prtOutput table from a walked variable set.
// LevelPercent counts up as the bin fills: a bin with no remaining
// capacity reports 100.
func (vs *VariableSet) GetOutputBins() ([]OutputBin, bool) {
	maxima := vs.GetSubtree(PrinterOutputMaxCapacity).Variables()
	remaining := vs.GetSubtree(PrinterOutputRemainingCapacity).Variables()
	statuses := vs.GetSubtree(PrinterOutputStatus).Variables()
	names := vs.GetSubtree(PrinterOutputName).Variables()
	if len(names) < 1 ||
		len(names) != len(maxima) ||
		len(names) != len(remaining) ||
		len(names) != len(statuses) {
		return nil, false
	}

	bins := make([]OutputBin, 0, len(names))
	for i := range names {
		status, err := strconv.ParseUint(statuses[i].Value, 10, 8)
		if err != nil {
			return nil, false
		}
		max, err := strconv.ParseInt(maxima[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}
		left, err := strconv.ParseInt(remaining[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}

		name := statuses[i].Name
		bin := OutputBin{
			Index:        name[len(name)-1],
			Name:         names[i].Value,
			LevelPercent: -1,
		}
		if status&subUnitUnavailable != 0 {
			switch status & subUnitAvailabilityMask {
			case subUnitBroken, subUnitReasonUnknown:
				bin.Broken = true
			}
		}
		if status&subUnitCritical != 0 {
			bin.Broken = true
		}
		if status&subUnitOffline != 0 {
			bin.Offline = true
		}
		if max > 0 && left >= 0 {
			bin.Full = left == 0
			bin.LevelPercent = 100 - int(100*left/max)
		}
		bins = append(bins, bin)
	}
	return bins, true
}

// supplyTypeNames maps the common PrtMarkerSuppliesTypeTC values.
var supplyTypeNames = map[string]string{
	"1":  "other",
	"2":  "unknown",
	"3":  "toner",
	"4":  "wasteToner",
	"5":  "ink",
	"6":  "inkCartridge",
	"8":  "wasteInk",
	"9":  "opc",
	"10": "developer",
	"15": "fuser",
	"20": "transferUnit",
	"21": "tonerCartridge",
	"32": "staples",
}

// supplyUnitNames maps the common PrtMarkerSuppliesSupplyUnitTC values.
var supplyUnitNames = map[string]string{
	"7":  "impressions",
	"8":  "sheets",
	"13": "tenthsOfGrams",
	"15": "tenthsOfMilliliters",
	"18": "items",
	"19": "percent",
}

// Supply classes from PrtMarkerSuppliesClassTC. A filled receptacle counts
// up as it is used; a consumed supply counts down.
const (
	SupplyClassOther    = "1"
	SupplyClassConsumed = "3"
	SupplyClassFilled   = "4"
)

// Supply describes one row of the prtMarkerSupplies table.
type Supply struct {
	Index        uint
	Description  string
	Type         string
	Class        string
	Unit         string
	MaxCapacity  int64
	Level        int64
	LevelPercent int    // -1 when the supply does not report capacity
	Color        string // from the prtMarkerColorant table, when present
}

// GetSupplies decodes the prtMarkerSupplies table from a walked variable
// set. For filled receptacles (waste toner and the like) LevelPercent is
// the fill level, not the remaining capacity.
func (vs *VariableSet) GetSupplies() ([]Supply, bool) {
	classes := vs.GetSubtree(PrinterMarkerSuppliesClass).Variables()
	types := vs.GetSubtree(PrinterMarkerSuppliesType).Variables()
	descriptions := vs.GetSubtree(PrinterMarkerSuppliesDescription).Variables()
	units := vs.GetSubtree(PrinterMarkerSuppliesSupplyUnit).Variables()
	maxima := vs.GetSubtree(PrinterMarkerSuppliesMaxCapacity).Variables()
	levels := vs.GetSubtree(PrinterMarkerSuppliesLevel).Variables()
	if len(classes) < 1 ||
		len(classes) != len(types) ||
		len(classes) != len(descriptions) ||
		len(classes) != len(units) ||
		len(classes) != len(maxima) ||
		len(classes) != len(levels) {
		return nil, false
	}

	// Colorant names only line up with supplies when the tables have the
	// same row count; otherwise leave Color empty.
	colors := vs.GetSubtree(PrinterMarkerColorantValue).Variables()
	if len(colors) != len(classes) {
		colors = nil
	}

	supplies := make([]Supply, 0, len(classes))
	for i := range classes {
		max, err := strconv.ParseInt(maxima[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}
		level, err := strconv.ParseInt(levels[i].Value, 10, 32)
		if err != nil {
			return nil, false
		}

		name := classes[i].Name
		supply := Supply{
			Index:        name[len(name)-1],
			Description:  descriptions[i].Value,
			Class:        classes[i].Value,
			MaxCapacity:  max,
			Level:        level,
			LevelPercent: -1,
		}
		if t, ok := supplyTypeNames[types[i].Value]; ok {
			supply.Type = t
		} else {
			supply.Type = "unknown"
		}
		if u, ok := supplyUnitNames[units[i].Value]; ok {
			supply.Unit = u
		}
		if colors != nil {
			supply.Color = colors[i].Value
		}
		if max > 0 && level >= 0 {
			supply.LevelPercent = int(100 * level / max)
		}
		supplies = append(supplies, supply)
	}
	return supplies, true
}
