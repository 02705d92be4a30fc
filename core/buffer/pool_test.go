package buffer

import "testing"

func TestPool_SizeClasses(t *testing.T) {
	p := NewPool()
	cases := []struct{ req, want int }{
		{1, 256},
		{256, 256},
		{257, 1024},
		{5000, 16 * 1024},
		{2 << 20, 2 << 20},
	}
	for _, tc := range cases {
		ab := p.Get(tc.req)
		if ab.Capacity() != tc.want {
			t.Errorf("Get(%d) capacity = %d, want %d", tc.req, ab.Capacity(), tc.want)
		}
		p.Put(ab)
	}
}

func TestPool_PutIgnoresForeignSizes(t *testing.T) {
	p := NewPool()
	p.Put(Make(300))
	p.Put(nil)
	if got := p.Get(300).Capacity(); got != 1024 {
		t.Errorf("capacity = %d, want 1024", got)
	}
}
