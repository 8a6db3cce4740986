package image

import "testing"

func TestRect_Size(t *testing.T) {
	tests := []struct {
		name      string
		r         Rect
		wantW     int
		wantH     int
		wantEmpty bool
		wantArea  int
	}{
		{"normal", NewRect(1, 2, 11, 7), 10, 5, false, 50},
		{"zero", Rect{}, 0, 0, true, 0},
		{"inverted", NewRect(10, 10, 5, 20), 0, 0, true, 0},
		{"single pixel", RectWH(3, 3, 1, 1), 1, 1, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Width(); got != tt.wantW {
				t.Errorf("Width() = %d, want %d", got, tt.wantW)
			}
			if got := tt.r.Height(); got != tt.wantH {
				t.Errorf("Height() = %d, want %d", got, tt.wantH)
			}
			if got := tt.r.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
			if got := tt.r.Area(); got != tt.wantArea {
				t.Errorf("Area() = %d, want %d", got, tt.wantArea)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 20, 15)
	if got, want := a.Union(b), NewRect(0, 0, 20, 15); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty.Union(b) = %v, want %v", got, b)
	}
	if got := a.Union(NewRect(3, 3, 3, 3)); got != a {
		t.Errorf("a.Union(empty) = %v, want %v", got, a)
	}
}

func TestRect_Clip(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 20, 20), NewRect(5, 5, 10, 10)},
		{"inside", NewRect(2, 2, 4, 4), NewRect(0, 0, 10, 10), NewRect(2, 2, 4, 4)},
		{"disjoint", NewRect(0, 0, 5, 5), NewRect(6, 6, 9, 9), Rect{}},
		{"touching edge", NewRect(0, 0, 5, 5), NewRect(5, 0, 9, 5), Rect{}},
		{"empty operand", NewRect(0, 0, 5, 5), Rect{}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Clip(tt.b); got != tt.want {
				t.Errorf("Clip = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_ClipSourceDest(t *testing.T) {
	bounds := NewRect(0, 0, 10, 10)

	tests := []struct {
		name     string
		src, dst Rect
		wantSrc  Rect
		wantDst  Rect
	}{
		{
			name:    "fits",
			src:     RectWH(0, 0, 4, 4),
			dst:     RectWH(2, 2, 0, 0),
			wantSrc: RectWH(0, 0, 4, 4),
			wantDst: RectWH(2, 2, 4, 4),
		},
		{
			name:    "hangs off top left",
			src:     RectWH(0, 0, 4, 4),
			dst:     RectWH(-1, -2, 0, 0),
			wantSrc: NewRect(1, 2, 4, 4),
			wantDst: NewRect(0, 0, 3, 2),
		},
		{
			name:    "hangs off bottom right",
			src:     RectWH(1, 1, 4, 4),
			dst:     RectWH(8, 9, 0, 0),
			wantSrc: NewRect(1, 1, 3, 2),
			wantDst: NewRect(8, 9, 10, 10),
		},
		{
			name: "outside",
			src:  RectWH(0, 0, 4, 4),
			dst:  RectWH(20, 20, 0, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSrc, gotDst := bounds.ClipSourceDest(tt.src, tt.dst)
			if gotSrc != tt.wantSrc || gotDst != tt.wantDst {
				t.Errorf("ClipSourceDest = %v, %v; want %v, %v", gotSrc, gotDst, tt.wantSrc, tt.wantDst)
			}
			if gotSrc.Width() != gotDst.Width() || gotSrc.Height() != gotDst.Height() {
				t.Errorf("source %v and destination %v differ in size", gotSrc, gotDst)
			}
		})
	}
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(1, 1, 3, 3)
	for _, p := range [][2]int{{1, 1}, {2, 2}} {
		if !r.Contains(p[0], p[1]) {
			t.Errorf("Contains(%d, %d) = false, want true", p[0], p[1])
		}
	}
	for _, p := range [][2]int{{0, 1}, {3, 2}, {2, 3}} {
		if r.Contains(p[0], p[1]) {
			t.Errorf("Contains(%d, %d) = true, want false", p[0], p[1])
		}
	}
	if !r.IsInside(NewRect(0, 0, 3, 3)) {
		t.Error("IsInside = false, want true")
	}
}

func TestRect_GrowTranslate(t *testing.T) {
	r := NewRect(2, 2, 4, 4)
	if got, want := r.Grow(1, 2), NewRect(1, 0, 5, 6); got != want {
		t.Errorf("Grow = %v, want %v", got, want)
	}
	if got := r.Grow(-2, 0); !got.IsEmpty() {
		t.Errorf("over-shrunk Grow = %v, want empty", got)
	}
	if got, want := r.Translate(3, -1), NewRect(5, 1, 7, 3); got != want {
		t.Errorf("Translate = %v, want %v", got, want)
	}
}
