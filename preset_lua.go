// preset_lua.go - Lua preset scripts

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LoadPresetFile runs a Lua script and folds its globals over the default
// preset. Every field is optional; a script that sets nothing yields the
// defaults. The result is validated before use, so a script cannot smuggle
// in an unstable delay feedback or a non-ascending bell layout.
//
// Recognized globals:
//
//	bpm, measures_per_chord, seventh_prob  -- numbers
//	delay_tap_beats, delay_feedback        -- numbers
//	voice_cap                              -- integer
//	drone_freq, shimmer_freq               -- Hz
//	min_interval, max_interval, cooldown   -- scheduler seconds
//	harmony_prob                           -- number
//	bells  = {220, 246.94, ...}            -- ascending Hz
//	chords = {{130.81, 174.61, 233.08}, ...}
func LoadPresetFile(path string) (Preset, error) {
	p := DefaultPreset()

	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	}

	luaNumber(L, "bpm", &p.BPM)
	luaInt(L, "measures_per_chord", &p.MeasuresPerChord)
	luaNumber(L, "seventh_prob", &p.SeventhProb)
	luaNumber(L, "delay_tap_beats", &p.DelayTapBeats)
	luaNumber(L, "delay_feedback", &p.DelayFeedback)
	luaInt(L, "voice_cap", &p.VoiceCap)
	luaNumber(L, "drone_freq", &p.DroneFreq)
	luaNumber(L, "shimmer_freq", &p.ShimmerFreq)
	luaNumber(L, "min_interval", &p.Scheduler.MinInterval)
	luaNumber(L, "max_interval", &p.Scheduler.MaxInterval)
	luaNumber(L, "cooldown", &p.Scheduler.Cooldown)
	luaNumber(L, "harmony_prob", &p.Scheduler.HarmonyProb)

	if bells, err := luaNumberList(L, "bells"); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	} else if bells != nil {
		p.Bells = bells
	}

	if chords, err := luaChordTable(L, "chords"); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	} else if chords != nil {
		p.Chords = chords
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

func luaNumber(L *lua.LState, name string, dst *float64) {
	if v, ok := L.GetGlobal(name).(lua.LNumber); ok {
		*dst = float64(v)
	}
}

func luaInt(L *lua.LState, name string, dst *int) {
	if v, ok := L.GetGlobal(name).(lua.LNumber); ok {
		*dst = int(v)
	}
}

func luaNumberList(L *lua.LState, name string) ([]float64, error) {
	v := L.GetGlobal(name)
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s must be a table of numbers", name)
	}
	var out []float64
	var bad error
	tbl.ForEach(func(_, value lua.LValue) {
		n, ok := value.(lua.LNumber)
		if !ok {
			bad = fmt.Errorf("%s contains non-number %s", name, value.Type())
			return
		}
		out = append(out, float64(n))
	})
	return out, bad
}

func luaChordTable(L *lua.LState, name string) ([][]float64, error) {
	v := L.GetGlobal(name)
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s must be a table of chord tables", name)
	}
	var out [][]float64
	var bad error
	tbl.ForEach(func(_, value lua.LValue) {
		inner, ok := value.(*lua.LTable)
		if !ok {
			bad = fmt.Errorf("%s entries must be tables, got %s", name, value.Type())
			return
		}
		var chord []float64
		inner.ForEach(func(_, note lua.LValue) {
			if n, ok := note.(lua.LNumber); ok {
				chord = append(chord, float64(n))
			} else {
				bad = fmt.Errorf("%s chord contains non-number %s", name, note.Type())
			}
		})
		out = append(out, chord)
	})
	return out, bad
}
