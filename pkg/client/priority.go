package client

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

type PriorityLevel string

const (
	PriorityNone    PriorityLevel = ""
	PriorityLow     PriorityLevel = "low"
	PriorityMedium  PriorityLevel = "medium"
	PriorityHigh    PriorityLevel = "high"
	PriorityExtreme PriorityLevel = "extreme"
)

// Priority is the compute budget prepended to every instruction set.
// The zero value adds nothing.
type Priority struct {
	ComputeUnits  uint32 // Number of compute units
	MicroLamports uint64 // Price per compute unit
	HeapSize      uint32 // Additional heap memory (optional)
}

var priorityProfiles = map[PriorityLevel]Priority{
	PriorityNone:    {},
	PriorityLow:     {ComputeUnits: 200_000, MicroLamports: 1_000},
	PriorityMedium:  {ComputeUnits: 400_000, MicroLamports: 5_000},
	PriorityHigh:    {ComputeUnits: 800_000, MicroLamports: 10_000},
	PriorityExtreme: {ComputeUnits: 1_000_000, MicroLamports: 50_000, HeapSize: 32 * 1024},
}

// PriorityFor returns the preset for level.
func PriorityFor(level PriorityLevel) (Priority, error) {
	p, ok := priorityProfiles[level]
	if !ok {
		return Priority{}, fmt.Errorf("unknown priority level: %s", level)
	}
	return p, nil
}

// Instructions returns the compute budget instructions for p.
func (p Priority) Instructions() []solana.Instruction {
	var ixs []solana.Instruction
	if p.ComputeUnits > 0 {
		ixs = append(ixs, computebudget.NewSetComputeUnitLimitInstruction(p.ComputeUnits).Build())
	}
	if p.MicroLamports > 0 {
		ixs = append(ixs, computebudget.NewSetComputeUnitPriceInstruction(p.MicroLamports).Build())
	}
	if p.HeapSize > 0 {
		ixs = append(ixs, computebudget.NewRequestHeapFrameInstruction(p.HeapSize).Build())
	}
	return ixs
}

// withBudget prepends the configured compute budget to ixs.
func (c *Client) withBudget(ixs []solana.Instruction) []solana.Instruction {
	budget := c.opts.Priority.Instructions()
	if len(budget) == 0 {
		return ixs
	}
	return append(budget, ixs...)
}
