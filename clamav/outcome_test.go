package clamav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Add(t *testing.T) {
	agg := &Aggregate{}
	agg.Add(Outcome{File: "/a", Status: StatusClean})
	agg.Add(Outcome{File: "/b", Status: StatusInfected, Signature: "Eicar-Test-Signature FOUND"})
	agg.Add(Outcome{File: "/c", Status: StatusError, Err: "boom"})
	agg.Add(Outcome{File: "/d", Status: StatusClean})

	assert.Equal(t, 4, agg.Total)
	assert.Equal(t, 1, agg.Infected)
	assert.Equal(t, 1, agg.Errored)
	assert.Len(t, agg.Outcomes, agg.Total)
}

func TestAggregate_Merge(t *testing.T) {
	left := &Aggregate{}
	left.Add(Outcome{File: "/a", Status: StatusClean})
	left.Add(Outcome{File: "/b", Status: StatusInfected})

	right := &Aggregate{}
	right.Add(Outcome{File: "/c", Status: StatusError})

	left.Merge(right)

	assert.Equal(t, 3, left.Total)
	assert.Equal(t, 1, left.Infected)
	assert.Equal(t, 1, left.Errored)
	assert.Len(t, left.Outcomes, left.Total)
	assert.Equal(t, "/c", left.Outcomes[2].File)
}

func TestAggregate_MergeNil(t *testing.T) {
	agg := &Aggregate{}
	agg.Add(Outcome{File: "/a", Status: StatusClean})

	agg.Merge(nil)

	assert.Equal(t, 1, agg.Total)
}
