package redact

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecrets(t *testing.T) {
	cases := map[string]struct {
		in, want string
		known    []string
	}{
		"bearer": {
			in:   `googleapi: got HTTP 401 for header Authorization: Bearer ya29.a0AfH6SM`,
			want: `googleapi: got HTTP 401 for header Authorization: Bearer <redacted>`,
		},
		"query token": {
			in:   `Get "https://sheets.googleapis.com/v4/x?access_token=ya29.abc&alt=json": EOF`,
			want: `Get "https://sheets.googleapis.com/v4/x?access_token=<redacted>&alt=json": EOF`,
		},
		"json secret": {
			in:   `{"client_secret": "GOCSPX-1234"}`,
			want: `{"client_secret": "<redacted>"}`,
		},
		"known value": {
			in:    `login as sales@acme.example with s3cret failed`,
			want:  `login as sales@acme.example with <redacted> failed`,
			known: []string{"s3cret", "", "t"},
		},
		"clean": {
			in:   `leads: 3 of 10 leads gathered`,
			want: `leads: 3 of 10 leads gathered`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Secrets(tc.in, tc.known...))
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(Writer(&buf, "ya29.token"), "", 0)

	logger.Printf("sheets: append failed with token ya29.token")
	assert.Equal(t, "sheets: append failed with token <redacted>\n", buf.String())
	assert.Empty(t, Secrets(""))
}
