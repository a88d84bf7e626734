package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	asserts := assert.New(t)

	testCases := []struct {
		in       string
		expected string
	}{
		{"notes.pdf", "notes.pdf"},
		{"My Notes v2.pdf", "My_Notes_v2.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\win.ini", "win.ini"},
		{".hidden.txt", "hidden.txt"},
		{"讲义.pdf", "file.pdf"},
		{"", "file"},
		{"a/b/c d.TXT", "c_d.TXT"},
	}

	for _, testCase := range testCases {
		asserts.Equal(testCase.expected, SanitizeFileName(testCase.in), testCase.in)
	}
}
