package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerdict_AddReasonDeduplicates(t *testing.T) {
	v := NewVerdict()
	require.True(t, v.Pass)
	require.Equal(t, "TRUE", v.Status())

	v.AddReason("pagar")
	v.AddReason("blur (10.0<80.0)")
	v.AddReason("pagar")

	require.False(t, v.Pass)
	require.Equal(t, []string{"pagar", "blur (10.0<80.0)"}, v.Reasons)
	require.Equal(t, "pagar; blur (10.0<80.0)", v.ReasonText())
	require.Equal(t, "FALSE", v.Status())
}
