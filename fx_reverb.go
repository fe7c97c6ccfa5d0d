// fx_reverb.go - Shared reverb stage: parallel combs into series allpasses

package main

// Reverb configuration:
//   - 4 parallel comb filters with prime-length delays (1687,1601,2053,2251)
//     create dense echoes without metallic resonances
//   - Each comb has scaled decay (0.97,0.95,0.93,0.91) for smooth damping
//   - Two series allpass filters (389,307 samples, coefficient 0.5) diffuse
//     without coloring the sound
//   - 8ms pre-delay separates direct sound from early reflections
//   - The right channel offsets every delay length by a small prime so the
//     tail decorrelates across the stereo field
const (
	REVERB_PRE_DELAY_MS = 8
	REVERB_ATTENUATION  = 0.3
	REVERB_STEREO_SKEW  = 23 // Right-channel delay offset in samples

	COMB_DELAY_1 = 1687
	COMB_DELAY_2 = 1601
	COMB_DELAY_3 = 2053
	COMB_DELAY_4 = 2251

	COMB_DECAY_1 = 0.97
	COMB_DECAY_2 = 0.95
	COMB_DECAY_3 = 0.93
	COMB_DECAY_4 = 0.91

	ALLPASS_DELAY_1 = 389
	ALLPASS_DELAY_2 = 307
	ALLPASS_COEF    = 0.5
)

type combFilter struct {
	buffer []float32
	decay  float32
	pos    int
}

type reverbChannel struct {
	combs       [4]combFilter
	allpassBuf  [2][]float32
	allpassPos  [2]int
	preDelayBuf []float32
	preDelayPos int
}

// Reverb is the shared wet stage every voice send reaches after the delay
// network. One instance per engine; state mutates only on the render loop.
type Reverb struct {
	left  reverbChannel
	right reverbChannel
}

func NewReverb() *Reverb {
	r := &Reverb{}
	combLengths := []int{COMB_DELAY_1, COMB_DELAY_2, COMB_DELAY_3, COMB_DELAY_4}
	combDecays := []float32{COMB_DECAY_1, COMB_DECAY_2, COMB_DECAY_3, COMB_DECAY_4}
	allpassLengths := []int{ALLPASS_DELAY_1, ALLPASS_DELAY_2}

	for chIdx, ch := range []*reverbChannel{&r.left, &r.right} {
		skew := chIdx * REVERB_STEREO_SKEW
		for i := range ch.combs {
			ch.combs[i] = combFilter{
				buffer: make([]float32, combLengths[i]+skew),
				decay:  combDecays[i],
			}
		}
		for i := range ch.allpassBuf {
			ch.allpassBuf[i] = make([]float32, allpassLengths[i]+skew)
		}
		ch.preDelayBuf = make([]float32, REVERB_PRE_DELAY_MS*MS_TO_SAMPLES)
	}
	return r
}

func (ch *reverbChannel) process(input float32) float32 {
	// Pre-delay for spatial separation from the direct sound.
	delayed := ch.preDelayBuf[ch.preDelayPos]
	ch.preDelayBuf[ch.preDelayPos] = input
	ch.preDelayPos = (ch.preDelayPos + 1) % len(ch.preDelayBuf)

	var out float32
	for i := range ch.combs {
		comb := &ch.combs[i]
		cDelay := comb.buffer[comb.pos]
		comb.buffer[comb.pos] = delayed + cDelay*comb.decay
		out += cDelay
		comb.pos = (comb.pos + 1) % len(comb.buffer)
	}

	for i := range ch.allpassBuf {
		pos := ch.allpassPos[i]
		buf := ch.allpassBuf[i]
		aDelay := buf[pos]
		buf[pos] = out + aDelay*ALLPASS_COEF
		out = aDelay - out
		ch.allpassPos[i] = (pos + 1) % len(buf)
	}

	return out * REVERB_ATTENUATION
}

// Process reverberates one stereo frame.
func (r *Reverb) Process(inL, inR float32) (float32, float32) {
	return r.left.process(inL), r.right.process(inR)
}
