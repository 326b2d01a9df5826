// ABOUTME: Tests for GearStore CRUD and the gear-to-packlist cascade.
// ABOUTME: Uses the shared in-memory blobs and recording mirror fakes.
package store

import (
	"testing"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
)

func newTestGearStore(t *testing.T) (*GearStore, *recordingMirror) {
	t.Helper()
	mirror := &recordingMirror{}
	s := NewGearStore(newMemBlobs(), mirror, nopLogger())
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	return s, mirror
}

func TestAddAndUpdateGearAsset(t *testing.T) {
	s, mirror := newTestGearStore(t)

	g := *models.NewGearAsset("Telecaster")
	s.AddGearAsset(g)

	serial := "TL-4411"
	s.UpdateGearAsset(g.ID, models.GearAssetPatch{SerialNumber: &serial})

	got, ok := s.GearAsset(g.ID)
	if !ok || got.SerialNumber != "TL-4411" {
		t.Errorf("asset not updated: %+v", got)
	}
	if got.Name != "Telecaster" {
		t.Errorf("unpatched field changed: %q", got.Name)
	}

	calls := mirror.Calls()
	if len(calls) != 2 || calls[1].Table != cloud.TableGearAssets {
		t.Errorf("unexpected mirror calls: %+v", calls)
	}
}

func TestDeleteGearAssetStripsPackItems(t *testing.T) {
	s, _ := newTestGearStore(t)

	g := *models.NewGearAsset("Amp head")
	s.AddGearAsset(g)

	pl := models.NewPackList("event-1")
	pl.Items = []models.PackItem{
		{GearID: g.ID, Packed: false},
		{Label: "Spare strings", Packed: true},
	}
	s.AddPackList(*pl)

	s.DeleteGearAsset(g.ID)

	got, _ := s.PackList(pl.ID)
	if len(got.Items) != 1 || got.Items[0].Label != "Spare strings" {
		t.Errorf("gear item not stripped from pack list: %+v", got.Items)
	}
}

func TestGearMergeRemoteWins(t *testing.T) {
	s, _ := newTestGearStore(t)

	local := models.GearAsset{ID: "amp", Name: "Amp", Value: 100, CreatedAt: models.Now()}
	s.AddGearAsset(local)

	remote := local
	remote.Value = 250
	s.MergeRemote(RemoteGear{GearAssets: []models.GearAsset{remote}})

	got, _ := s.GearAsset("amp")
	if got.Value != 250 {
		t.Errorf("remote value did not win: %v", got.Value)
	}
}

func TestGearHydrateRoundTrip(t *testing.T) {
	blobs := newMemBlobs()
	s1 := NewGearStore(blobs, nil, nopLogger())
	if err := s1.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	g := *models.NewGearAsset("Pedalboard")
	s1.AddGearAsset(g)

	s2 := NewGearStore(blobs, nil, nopLogger())
	if err := s2.Hydrate(); err != nil {
		t.Fatalf("second Hydrate failed: %v", err)
	}
	assets := s2.GearAssets()
	if len(assets) != 1 || assets[0].ID != g.ID {
		t.Errorf("round-trip mismatch: %+v", assets)
	}
}
