package errs

import (
	"errors"
	"io"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesBizCode(t *testing.T) {
	wrapped := ErrServerRejected.Wrap(io.ErrUnexpectedEOF)

	require.ErrorIs(t, wrapped, ErrNetwork)
	require.ErrorIs(t, wrapped, ErrOffline)
	require.NotErrorIs(t, wrapped, ErrParse)
	require.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestErrorIsThroughPkgErrors(t *testing.T) {
	err := pkgerrors.WithMessage(ErrWrite.Wrapf("wrote %d of %d bytes", 10, 20), "install")

	require.ErrorIs(t, err, ErrWrite)

	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, BizCodeWrite, e.BizCode())
}

func TestDescribe(t *testing.T) {
	testCases := []struct {
		Name     string
		Err      error
		Detailed bool
		Expected string
	}{
		{
			Name:     "plain message",
			Err:      ErrIncompleteImage.Wrap(io.ErrUnexpectedEOF),
			Expected: "Update incomplete",
		},
		{
			Name:     "detailed",
			Err:      ErrIncompleteImage.Wrap(io.ErrUnexpectedEOF),
			Detailed: true,
			Expected: "Update incomplete: unexpected EOF",
		},
		{
			Name:     "foreign error",
			Err:      io.EOF,
			Expected: "EOF",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, Describe(tc.Err, tc.Detailed))
		})
	}
}
