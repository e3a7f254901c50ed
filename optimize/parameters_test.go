package optimize

import (
	"encoding/json"
	"testing"
)

const (
	json1 = "{\"a\":7.2,\"b\":1.17e-22,\"c\":0,\"d \\\"!\":0.999999}"
)

func TestMarshalParameters(tst *testing.T) {
	var pars FloatParameters
	a := 7.2
	b := 1.17e-22
	c := 0.0
	d := 0.999999
	pars.Append(NewBasicFloatParameter(&a, "a"))
	pars.Append(NewBasicFloatParameter(&b, "b"))
	pars.Append(NewBasicFloatParameter(&c, "c"))
	pars.Append(NewBasicFloatParameter(&d, "d \"!"))
	j, err := json.Marshal(pars)
	if err != nil {
		tst.Error("Error: ", err)
	}
	if string(j) != json1 {
		tst.Errorf("Incorrect encoded json value. Expected:\n'%v'\n got\n'%v'", json1, string(j))
	}
}

func TestUnmarshalParameters(tst *testing.T) {
	var pars FloatParameters
	a := 1.0
	b := 1.0
	c := 1.0
	d := 1.0
	pars.Append(NewBasicFloatParameter(&a, "a"))
	pars.Append(NewBasicFloatParameter(&b, "b"))
	pars.Append(NewBasicFloatParameter(&c, "c"))
	pars.Append(NewBasicFloatParameter(&d, "d \"!"))
	err := json.Unmarshal([]byte(json1), &pars)
	if err != nil {
		tst.Error("Error: ", err)
	}
	j, err := json.Marshal(pars)
	if err != nil {
		tst.Error("Error: ", err)
	}
	if string(j) != json1 {
		tst.Errorf("Incorrect encoded json value. Expected:\n'%v'\n got\n'%v'", json1, string(j))
	}
}

func TestSetFromMap(tst *testing.T) {
	var pars FloatParameters
	a := 1.0
	b := 2.0
	pars.Append(NewBasicFloatParameter(&a, "a"))
	pars.Append(NewBasicFloatParameter(&b, "b"))

	err := pars.SetFromMap(map[string]float64{"b": 7})
	if err != nil {
		tst.Error("Error: ", err)
	}
	if a != 1 || b != 7 {
		tst.Error("Expected a=1, b=7, got", a, b)
	}

	err = pars.SetFromMap(map[string]float64{"z": 1})
	if err == nil {
		tst.Error("Expected an error for an unknown parameter")
	}
}

func TestReadLine(tst *testing.T) {
	var pars FloatParameters
	a := 0.0
	b := 0.0
	pars.Append(NewBasicFloatParameter(&a, "a"))
	pars.Append(NewBasicFloatParameter(&b, "b"))

	// iteration and likelihood columns are skipped
	err := pars.ReadLine("10 -12.5 3.25 -1.5")
	if err != nil {
		tst.Error("Error: ", err)
	}
	if a != 3.25 || b != -1.5 {
		tst.Error("Expected a=3.25, b=-1.5, got", a, b)
	}
}
