package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func makeFeatures(fill float64) []float64 {
	features := make([]float64, 126)
	for i := range features {
		features[i] = fill
	}
	return features
}

func TestSampleRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	sign := &Sign{ID: uuid.NewString(), Label: "hello"}
	if err := s.Signs().Create(sign); err != nil {
		t.Fatalf("create sign failed: %v", err)
	}

	samples := [][]float64{makeFeatures(0.1), makeFeatures(0.2), makeFeatures(0.3)}
	if err := s.Samples().Create(sign.ID, samples); err != nil {
		t.Fatalf("create samples failed: %v", err)
	}

	got, err := s.Samples().GetBySignID(sign.ID)
	if err != nil {
		t.Fatalf("get samples failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d samples, want 3", len(got))
	}
	for i, sample := range got {
		if sample.SampleIndex != i {
			t.Errorf("samples[%d].SampleIndex = %d, want %d", i, sample.SampleIndex, i)
		}
		if len(sample.Features) != 126 {
			t.Errorf("samples[%d] has %d features, want 126", i, len(sample.Features))
		}
	}
	if got[1].Features[0] != 0.2 {
		t.Errorf("samples[1].Features[0] = %v, want 0.2", got[1].Features[0])
	}

	// Create updates the sample count on the sign
	updated, err := s.Signs().GetByID(sign.ID)
	if err != nil {
		t.Fatalf("get sign failed: %v", err)
	}
	if updated.Samples != 3 {
		t.Errorf("sign.Samples = %d, want 3", updated.Samples)
	}
}

func TestSampleRepository_GetEmpty(t *testing.T) {
	s := newTestStore(t)

	samples, err := s.Samples().GetBySignID("nope")
	if err != nil {
		t.Fatalf("get samples failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples for unknown sign, want 0", len(samples))
	}
}

func TestSampleRepository_DeleteBySignID(t *testing.T) {
	s := newTestStore(t)

	sign := &Sign{ID: uuid.NewString(), Label: "thanks"}
	if err := s.Signs().Create(sign); err != nil {
		t.Fatalf("create sign failed: %v", err)
	}
	if err := s.Samples().Create(sign.ID, [][]float64{makeFeatures(0.5)}); err != nil {
		t.Fatalf("create samples failed: %v", err)
	}

	if err := s.Samples().DeleteBySignID(sign.ID); err != nil {
		t.Fatalf("delete samples failed: %v", err)
	}

	samples, err := s.Samples().GetBySignID(sign.ID)
	if err != nil {
		t.Fatalf("get samples failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples after delete, want 0", len(samples))
	}
}

func TestSampleRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)

	sign := &Sign{ID: uuid.NewString(), Label: "yes"}
	if err := s.Signs().Create(sign); err != nil {
		t.Fatalf("create sign failed: %v", err)
	}
	if err := s.Samples().Create(sign.ID, [][]float64{makeFeatures(0.5)}); err != nil {
		t.Fatalf("create samples failed: %v", err)
	}

	// Deleting the sign removes its samples via the foreign key
	if err := s.Signs().Delete(sign.ID); err != nil {
		t.Fatalf("delete sign failed: %v", err)
	}

	samples, err := s.Samples().GetBySignID(sign.ID)
	if err != nil {
		t.Fatalf("get samples failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples after sign delete, want 0", len(samples))
	}
}

func TestAnnouncementRepository_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Announcements()

	base := time.Now().Add(-time.Minute)
	for i, label := range []string{"hello", "thanks", "yes"} {
		err := repo.Record(&Announcement{
			Label:       label,
			Confidence:  0.9,
			AnnouncedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("record %q failed: %v", label, err)
		}
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d announcements, want 2", len(recent))
	}

	// Newest first
	if recent[0].Label != "yes" || recent[1].Label != "thanks" {
		t.Errorf("recent = [%q, %q], want [yes, thanks]", recent[0].Label, recent[1].Label)
	}
	if recent[0].ID == "" {
		t.Error("record should assign an ID")
	}
}

func TestAnnouncementRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Announcements()

	now := time.Now()
	old := &Announcement{Label: "hello", Confidence: 0.8, AnnouncedAt: now.Add(-2 * time.Hour)}
	fresh := &Announcement{Label: "thanks", Confidence: 0.8, AnnouncedAt: now}
	if err := repo.Record(old); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := repo.Record(fresh); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	removed, err := repo.Prune(now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("pruned %d rows, want 1", removed)
	}

	recent, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Label != "thanks" {
		t.Errorf("after prune got %d announcements, want just thanks", len(recent))
	}
}

func TestSettingRepository_SetGetAll(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("volume"); err != ErrNotFound {
		t.Errorf("get missing = %v, want ErrNotFound", err)
	}

	if err := repo.Set("volume", "0.9"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := repo.Set("volume", "0.5"); err != nil {
		t.Fatalf("set overwrite failed: %v", err)
	}
	if err := repo.Set("rate", "150"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := repo.Get("volume")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "0.5" {
		t.Errorf("volume = %q, want %q", value, "0.5")
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 2 || all["rate"] != "150" {
		t.Errorf("all = %v, want volume and rate", all)
	}

	if err := repo.Delete("volume"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get("volume"); err != ErrNotFound {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}
