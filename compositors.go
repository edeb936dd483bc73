package rewind

// Take returns a Streamer which streams at most n samples from s. It's the way to get a
// finite Streamer out of a repeating one.
//
// The returned Streamer propagates s's errors through Err.
func Take(n int, s Streamer) Streamer {
	return &take{s: s, remains: n}
}

type take struct {
	s       Streamer
	remains int
}

func (t *take) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remains <= 0 {
		return 0, false
	}
	if len(samples) > t.remains {
		samples = samples[:t.remains]
	}
	n, ok = t.s.Stream(samples)
	t.remains -= n
	return n, ok
}

func (t *take) Err() error {
	return t.s.Err()
}

// Seq takes zero or more Streamers and returns a Streamer which streams them one by one
// without pauses.
//
// Seq does not propagate errors from the Streamers.
func Seq(s ...Streamer) Streamer {
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for len(s) > 0 && n < len(samples) {
			sn, sok := s[0].Stream(samples[n:])
			n += sn
			ok = ok || sok
			if !sok {
				s = s[1:]
			}
		}
		return n, ok
	})
}

// Mix takes zero or more Streamers and returns a Streamer which streams them mixed together.
// Drained Streamers are dropped from the mix; the result drains once all of them did.
//
// Mix does not propagate errors from the Streamers.
func Mix(s ...Streamer) Streamer {
	s = append([]Streamer(nil), s...)
	var tmp [512][2]float64
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for len(samples) > 0 && len(s) > 0 {
			chunk := len(samples)
			if chunk > len(tmp) {
				chunk = len(tmp)
			}
			for i := range samples[:chunk] {
				samples[i] = [2]float64{}
			}
			most := 0
			live := s[:0]
			for _, st := range s {
				sn, sok := st.Stream(tmp[:chunk])
				for i := range tmp[:sn] {
					samples[i][0] += tmp[i][0]
					samples[i][1] += tmp[i][1]
				}
				if sn > most {
					most = sn
				}
				if sok {
					live = append(live, st)
				}
			}
			s = live
			if most == 0 {
				break
			}
			n += most
			samples = samples[most:]
			ok = true
		}
		return n, ok
	})
}
