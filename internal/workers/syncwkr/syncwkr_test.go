package syncwkr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
)

type adopter struct {
	got []*model.Snapshot
}

func (a *adopter) Adopt(snap *model.Snapshot) bool {
	a.got = append(a.got, snap)
	return snap.Mode != "stale"
}

func TestHandle(t *testing.T) {
	a := &adopter{}
	w := New(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{NatsSubject: "SHIFTBOARD.snapshot"}}, a)
	assert.Equal(t, "SHIFTBOARD.snapshot.*", w.subject)

	assert.NoError(t, w.Handle([]byte(`{"id":"x","mode":"station","fingerprint":"f","grandTotal":3}`)))
	assert.NoError(t, w.Handle([]byte(`{"mode":"stale"}`)))
	assert.Error(t, w.Handle([]byte(`{`)))

	assert.Len(t, a.got, 2)
	assert.Equal(t, 3, a.got[0].GrandTotal)
	assert.Equal(t, 1, w.Count())
}
