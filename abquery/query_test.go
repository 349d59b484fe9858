// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abquery

import (
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"golang.org/x/abtest/abmath"
)

func TestDecodeBinomialDefaults(t *testing.T) {
	got, err := DecodeBinomial(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultBinomial, got); diff != "" {
		t.Errorf("empty query (-want +got):\n%s", diff)
	}

	// Present keys override only themselves.
	v, _ := url.ParseQuery("usersA=1000&conversionsB=40&lossThreshold=0.1")
	got, err = DecodeBinomial(v)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultBinomial
	want.Control.Users = 1000
	want.Treatment.Conversions = 40
	want.LossThreshold = 0.1
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial query (-want +got):\n%s", diff)
	}
}

func TestDecodeBinomialErrors(t *testing.T) {
	for _, q := range []string{"usersA=ten", "conversionsB=1.5", "threshold=high", "lossThreshold=abc"} {
		v, _ := url.ParseQuery(q)
		if _, err := DecodeBinomial(v); err == nil {
			t.Errorf("DecodeBinomial(%q): want error", q)
		}
	}
}

func TestEncodeBinomial(t *testing.T) {
	got := EncodeBinomial(DefaultBinomial).Encode()
	want := "conversionsA=13&conversionsB=23&lossThreshold=0.06&threshold=95&usersA=203&usersB=204"
	if got != want {
		t.Errorf("EncodeBinomial = %q, want %q", got, want)
	}
}

func TestBinomialRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		obs := func(label string) abmath.Observation {
			users := rapid.IntRange(0, 1<<30).Draw(t, label+"Users")
			conv := rapid.IntRange(0, users).Draw(t, label+"Conversions")
			return abmath.Observation{Users: users, Conversions: conv}
		}
		b := Binomial{
			Control:       obs("a"),
			Treatment:     obs("b"),
			Threshold:     rapid.Float64Range(0, 100).Draw(t, "threshold"),
			LossThreshold: rapid.Float64Range(0, 10).Draw(t, "lossThreshold"),
		}
		// Go through the string form, as a shared link does.
		v, err := url.ParseQuery(EncodeBinomial(b).Encode())
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecodeBinomial(v)
		if err != nil {
			t.Fatal(err)
		}
		if got != b {
			t.Fatalf("round trip: got %+v, want %+v", got, b)
		}
	})
}

func TestGroups(t *testing.T) {
	g := Groups{
		Groups: []abmath.GroupSummary{
			{Name: "Control", Mean: 53.9624, StdDev: 83.2523, Count: 1128},
			{Name: "Blood Tests", Mean: 61.8059, StdDev: 56.2002, Count: 1224},
		},
		Significance: 0.01,
	}
	v := EncodeGroups(g)
	if got := v.Get("group_1_name"); got != "Blood Tests" {
		t.Errorf("group_1_name = %q", got)
	}
	if got := v.Get("group_0_stddev"); got != "83.2523" {
		t.Errorf("group_0_stddev = %q", got)
	}
	back, err := DecodeGroups(v)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(g, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	// Significance is omitted when unset.
	g.Significance = 0
	if v := EncodeGroups(g); v.Has("significance") {
		t.Errorf("unset significance encoded as %q", v.Get("significance"))
	}
}

func TestDecodeGroupsErrors(t *testing.T) {
	for _, q := range []string{
		"group_0_name=a&group_2_name=c",
		"group_x_name=a",
		"group_0=a",
		"group_0_color=red",
		"group_0_mean=abc",
		"group_0_count=1.5",
		"group_0_name=a&significance=low",
	} {
		v, _ := url.ParseQuery(q)
		if _, err := DecodeGroups(v); err == nil {
			t.Errorf("DecodeGroups(%q): want error", q)
		}
	}

	// Unrelated keys are ignored.
	v, _ := url.ParseQuery("utm_source=mail&group_0_name=a")
	g, err := DecodeGroups(v)
	if err != nil || len(g.Groups) != 1 {
		t.Errorf("DecodeGroups with extra keys = %+v, %v", g, err)
	}
}

func TestGroupsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "n")
		var g Groups
		for i := 0; i < n; i++ {
			g.Groups = append(g.Groups, abmath.GroupSummary{
				Name:   rapid.String().Draw(t, "name"),
				Mean:   rapid.Float64Range(-1e9, 1e9).Draw(t, "mean"),
				StdDev: rapid.Float64Range(0, 1e9).Draw(t, "stddev"),
				Count:  rapid.IntRange(0, math.MaxInt32).Draw(t, "count"),
			})
		}
		if rapid.Bool().Draw(t, "hasAlpha") {
			g.Significance = rapid.Float64Range(1e-6, 0.5).Draw(t, "alpha")
		}
		v, err := url.ParseQuery(EncodeGroups(g).Encode())
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecodeGroups(v)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.Equal(g, got) {
			t.Fatalf("round trip: %s", cmp.Diff(g, got))
		}
	})
}
