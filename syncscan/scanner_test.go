package syncscan

import "testing"

// AC-3's sync word occupies the top 16 bits of the scanner's 4-byte
// window (mask 0xFFFF0000), so a match is only reported once 2 bytes
// beyond the sync word itself have been consumed.

func TestScanFindsPatternWithinOneBuffer(t *testing.T) {
	s := NewScanner()
	s.Set(0, 0x0B770000, 0xFFFF0000) // AC-3 sync.

	buf := []byte{0x00, 0x00, 0x0B, 0x77, 0x00, 0x00}
	consumed, mask, ok := s.Scan(buf)
	if !ok {
		t.Fatal("expected sync to be found")
	}
	if mask != 1 {
		t.Errorf("syncMask = %#x, want 1", mask)
	}
	if consumed != 6 {
		t.Errorf("consumed = %d, want 6", consumed)
	}
	// The sync word itself starts 4 bytes back from consumed.
	if buf[consumed-4] != 0x0B || buf[consumed-3] != 0x77 {
		t.Errorf("sync word not where expected at consumed-4")
	}
}

func TestScanFindsPatternAcrossBufferBoundary(t *testing.T) {
	s := NewScanner()
	s.Set(0, 0x0B770000, 0xFFFF0000)

	_, _, ok1 := s.Scan([]byte{0x00, 0x00, 0x0B})
	if ok1 {
		t.Fatal("should not match yet with only 3 bytes loaded")
	}

	_, mask, ok2 := s.Scan([]byte{0x77, 0x00, 0x00})
	if !ok2 {
		t.Fatal("expected sync to be found across the boundary")
	}
	if mask != 1 {
		t.Errorf("syncMask = %#x, want 1", mask)
	}
}

func TestScanMultiplePatterns(t *testing.T) {
	s := NewScanner()
	s.Set(0, 0x0B770000, 0xFFFF0000) // AC-3
	s.Set(1, 0xFFE00000, 0xFFE00000) // MPA

	buf := []byte{0xFF, 0xFB, 0x00, 0x00}
	_, mask, ok := s.Scan(buf)
	if !ok {
		t.Fatal("expected MPA sync to be found")
	}
	if mask != 1<<1 {
		t.Errorf("syncMask = %#x, want bit 1 set", mask)
	}
}

func TestClearRemovesPattern(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x0B, 0x77, 0x00, 0x00}

	s := NewScanner()
	s.Set(0, 0x0B770000, 0xFFFF0000)
	s.Clear(0)
	if _, _, ok := s.Scan(buf); ok {
		t.Error("cleared pattern should not match")
	}

	s2 := NewScanner()
	s2.Set(0, 0x0B770000, 0xFFFF0000)
	if _, _, ok := s2.Scan(buf); !ok {
		t.Fatal("sanity check: pattern should match before being cleared")
	}
}

func TestResetDiscardsPartialWindow(t *testing.T) {
	s := NewScanner()
	s.Set(0, 0x0B770000, 0xFFFF0000)
	s.Scan([]byte{0x00, 0x00, 0x0B})
	s.Reset()

	_, _, ok := s.Scan([]byte{0x77, 0x00, 0x00})
	if ok {
		t.Error("Reset should have discarded the partial match in progress")
	}
}
