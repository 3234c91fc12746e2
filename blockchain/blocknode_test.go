// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"
)

func TestAncestor(t *testing.T) {
	genesis := newTestNode(nil, 1000000, 0x207fffff)
	tip := chainedNodes(genesis, 50, 600, 0x207fffff)

	tests := []struct {
		height  int32
		want    int32
		wantNil bool
	}{
		{50, 50, false},
		{49, 49, false},
		{0, 0, false},
		{-1, 0, true},
		{51, 0, true},
	}
	for _, test := range tests {
		got := tip.Ancestor(test.height)
		if test.wantNil {
			if got != nil {
				t.Errorf("height %d: got node at height %d, want nil",
					test.height, got.height)
			}
			continue
		}
		if got == nil || got.height != test.want {
			t.Errorf("height %d: got %v, want node at height %d",
				test.height, got, test.want)
		}
	}

	if got := tip.RelativeAncestor(5); got == nil || got.height != 45 {
		t.Errorf("RelativeAncestor(5): got %v, want node at height 45", got)
	}
}

func TestCalcPastMedianTime(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []int64
		want       int64
	}{
		{
			name:       "genesis only",
			timestamps: []int64{1000},
			want:       1000,
		},
		{
			name:       "fewer than eleven blocks",
			timestamps: []int64{1000, 1600, 1200, 1400, 1800},
			want:       1400,
		},
		{
			// With an even number of timestamps the higher of the
			// two middle elements is used.
			name:       "even number of blocks",
			timestamps: []int64{1000, 1600, 1200, 1400},
			want:       1400,
		},
		{
			name: "full eleven block window",
			timestamps: []int64{
				1000, 1060, 1120, 1180, 1240, 1300,
				1360, 1420, 1480, 1540, 1600,
			},
			want: 1300,
		},
		{
			// Only the most recent eleven timestamps participate.
			name: "window slides",
			timestamps: []int64{
				9999, 1000, 1060, 1120, 1180, 1240, 1300,
				1360, 1420, 1480, 1540, 1600,
			},
			want: 1300,
		},
	}

	for _, test := range tests {
		var tip *blockNode
		for _, ts := range test.timestamps {
			tip = newTestNode(tip, ts, 0x207fffff)
		}
		got := tip.CalcPastMedianTime()
		if !got.Equal(time.Unix(test.want, 0)) {
			t.Errorf("%s: got %v, want %v", test.name, got.Unix(), test.want)
		}
	}
}
