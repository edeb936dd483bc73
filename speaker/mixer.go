package speaker

import "github.com/faiface/rewind"

// mixer plays Streamers added to it mixed together, dropping each one once it drains. It
// streams silence while empty and never drains itself.
type mixer struct {
	streamers []rewind.Streamer
	tmp       [][2]float64
}

func (m *mixer) add(s ...rewind.Streamer) {
	m.streamers = append(m.streamers, s...)
}

func (m *mixer) clear() {
	m.streamers = nil
}

func (m *mixer) len() int {
	return len(m.streamers)
}

func (m *mixer) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.tmp) < len(samples) {
		m.tmp = make([][2]float64, len(samples))
	}
	for i := range samples {
		samples[i] = [2]float64{}
	}
	live := m.streamers[:0]
	for _, st := range m.streamers {
		tmp := m.tmp[:len(samples)]
		sn, sok := st.Stream(tmp)
		for i := range tmp[:sn] {
			samples[i][0] += tmp[i][0]
			samples[i][1] += tmp[i][1]
		}
		if sok {
			live = append(live, st)
		}
	}
	for i := len(live); i < len(m.streamers); i++ {
		m.streamers[i] = nil
	}
	m.streamers = live
	return len(samples), true
}

func (m *mixer) Err() error {
	return nil
}
