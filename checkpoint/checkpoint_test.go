package checkpoint

import (
	"path"
	"testing"
)

func TestSaveLoad(tst *testing.T) {
	db, err := Open(path.Join(tst.TempDir(), "test.db"))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()

	s := NewSweepIO(db, "run1", 123)

	data, err := s.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if data != nil {
		tst.Error("Expected no checkpoint, got", data)
	}

	saved := &SweepData{
		Names:         []string{"plaw2", "plaw4"},
		Cost:          map[string]float64{"plaw2": 10, "plaw4": 5},
		Penalty:       map[string]float64{"plaw2": 1, "plaw4": 2},
		LogLikelihood: map[string]float64{"plaw2": -11, "plaw4": -7},
		NParameters:   map[string]int{"plaw2": 2, "plaw4": 4},
		PID:           123,
	}
	if err := s.Save(saved); err != nil {
		tst.Error("Error: ", err)
	}

	data, err = s.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if data == nil {
		tst.Fatal("Expected a checkpoint")
	}
	if len(data.Names) != 2 || data.Names[1] != "plaw4" {
		tst.Error("Incorrect names:", data.Names)
	}
	if data.Cost["plaw4"] != 5 || data.LogLikelihood["plaw2"] != -11 {
		tst.Error("Incorrect values:", data)
	}
	if data.Done {
		tst.Error("Expected an unfinished checkpoint")
	}
}

func TestKeySeparation(tst *testing.T) {
	db, err := Open(path.Join(tst.TempDir(), "test.db"))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()

	s1 := NewSweepIO(db, "run1", 1)
	s2 := NewSweepIO(db, "run1", 2)

	if err := s1.Save(&SweepData{Names: []string{"m1"}, PID: 1}); err != nil {
		tst.Error("Error: ", err)
	}
	data, err := s2.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if data != nil {
		tst.Error("Expected no checkpoint for a different pid")
	}
}
