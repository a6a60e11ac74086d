package scorer

// scratch owns the Engine's reusable working memory: the similarity matrix
// buffer, the padded batch staging buffer, per-token magnitude buffers for
// cosine mode, and the document metadata slice used by the batch
// scheduler. Buffers grow on demand and are never shrunk within a session.
// Contents are not cleared between uses; the batch scheduler explicitly
// zero-fills padding regions before they are read, and every other region
// is fully overwritten before use.
type scratch struct {
	sim     []float32
	staging []float32
	qmags   []float32
	dmags   []float32
	meta    []docMeta
}

func growFloats(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func (s *scratch) similarity(n int) []float32 {
	s.sim = growFloats(s.sim, n)
	return s.sim
}

func (s *scratch) stagingBuf(n int) []float32 {
	s.staging = growFloats(s.staging, n)
	return s.staging
}

func (s *scratch) queryMags(n int) []float32 {
	s.qmags = growFloats(s.qmags, n)
	return s.qmags
}

func (s *scratch) docMags(n int) []float32 {
	s.dmags = growFloats(s.dmags, n)
	return s.dmags
}

func (s *scratch) metaBuf(n int) []docMeta {
	if cap(s.meta) < n {
		s.meta = make([]docMeta, n)
	}
	s.meta = s.meta[:n]
	return s.meta
}

func zeroFloats(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
