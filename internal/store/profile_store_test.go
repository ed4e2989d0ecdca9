package store_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dhchat/internal/domain"
	"dhchat/internal/store"
)

func TestProfile_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ps domain.ProfileStore = store.NewProfileFileStore(home)

	want := domain.Profile{Name: "lab", Address: "10.0.0.5", Port: 50007, Transport: "ws", Framing: "length", KDF: "scrypt"}
	if err := ps.SaveProfile(want); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	got, ok, err := ps.LoadProfile("lab")
	if err != nil || !ok {
		t.Fatalf("load profile: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("mismatch after load: %+v", got)
	}

	// A fresh store on the same directory sees the same data.
	got, ok, err = store.NewProfileFileStore(home).LoadProfile("lab")
	if err != nil || !ok || got != want {
		t.Fatalf("reload: %+v ok=%v err=%v", got, ok, err)
	}
}

func TestProfile_MissingFileIsEmpty(t *testing.T) {
	ps := store.NewProfileFileStore(filepath.Join(t.TempDir(), "not-yet"))
	if _, ok, err := ps.LoadProfile("x"); err != nil || ok {
		t.Fatalf("load from empty store: ok=%v err=%v", ok, err)
	}
	list, err := ps.ListProfiles()
	if err != nil || len(list) != 0 {
		t.Fatalf("list from empty store: %v %v", list, err)
	}
	// Saving creates the directory.
	if err := ps.SaveProfile(domain.Profile{Name: "x"}); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
}

func TestProfile_ListAndDelete(t *testing.T) {
	ps := store.NewProfileFileStore(t.TempDir())
	for _, n := range []string{"zeta", "alpha", "mid"} {
		if err := ps.SaveProfile(domain.Profile{Name: n, Address: n + ".local"}); err != nil {
			t.Fatalf("save %s: %v", n, err)
		}
	}
	list, err := ps.ListProfiles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "alpha" || list[2].Name != "zeta" {
		t.Fatalf("unexpected list order: %+v", list)
	}

	ok, err := ps.DeleteProfile("mid")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = ps.DeleteProfile("mid")
	if err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
	if _, found, _ := ps.LoadProfile("mid"); found {
		t.Fatalf("deleted profile still present")
	}
}

func TestProfile_FileMode(t *testing.T) {
	home := t.TempDir()
	ps := store.NewProfileFileStore(home)
	if err := ps.SaveProfile(domain.Profile{Name: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	fi, err := os.Stat(filepath.Join(home, "profiles.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", fi.Mode().Perm())
	}
	matches, _ := filepath.Glob(filepath.Join(home, "*.tmp-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestProfile_RejectsBadName(t *testing.T) {
	ps := store.NewProfileFileStore(t.TempDir())
	for _, n := range []string{"", "a/b", `a\b`} {
		if err := ps.SaveProfile(domain.Profile{Name: n}); err == nil {
			t.Fatalf("name %q accepted", n)
		}
	}
}

func TestProfile_ConcurrentSaves(t *testing.T) {
	ps := store.NewProfileFileStore(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ps.SaveProfile(domain.Profile{Name: string(rune('a' + i))}); err != nil {
				t.Errorf("save: %v", err)
			}
		}(i)
	}
	wg.Wait()
	list, err := ps.ListProfiles()
	if err != nil || len(list) != 10 {
		t.Fatalf("want 10 profiles, got %d (%v)", len(list), err)
	}
}
