package wayland

import "github.com/AvengeMedia/danktk/internal/log"

type output struct {
	id    ObjectID
	name  string
	scale int32
}

func (m *Manager) handleOutputUpdated(e OutputUpdated) {
	scale := e.Scale
	if scale < 1 {
		scale = 1
	}
	o, known := m.outputs[e.Output]
	if !known {
		o = &output{id: e.Output}
		m.outputs[e.Output] = o
	}
	changed := o.scale != scale
	o.name = e.Name
	o.scale = scale

	if !known {
		m.emit(OutputAdded{Output: o.id, Name: o.name, Scale: o.scale})
		return
	}
	if changed {
		m.rescaleSurfacesOn(e.Output)
	}
}

func (m *Manager) handleOutputGone(e OutputGone) {
	if _, ok := m.outputs[e.Output]; !ok {
		return
	}
	delete(m.outputs, e.Output)
	m.emit(OutputRemoved{Output: e.Output})
	m.rescaleSurfacesOn(e.Output)
}

func (m *Manager) rescaleSurfacesOn(o ObjectID) {
	for _, c := range m.allCores() {
		if _, on := c.outputs[o]; !on {
			continue
		}
		if _, alive := m.outputs[o]; !alive {
			delete(c.outputs, o)
		}
		m.legacyScaleChanged(c)
	}
}

func (m *Manager) allCores() []*surfaceCore {
	out := make([]*surfaceCore, 0, m.idmap.len())
	for _, id := range sortedKeys(m.idmap.bySurface) {
		if c, _, ok := m.core(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) handleSurfaceEnter(e SurfaceEnter) {
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	c.outputs[e.Output] = struct{}{}
	m.legacyScaleChanged(c)
}

func (m *Manager) handleSurfaceLeave(e SurfaceLeave) {
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	delete(c.outputs, e.Output)
	if len(c.outputs) == 0 {
		return
	}
	m.legacyScaleChanged(c)
}

// legacyScaleChanged picks the largest integer scale among entered outputs.
func (m *Manager) legacyScaleChanged(c *surfaceCore) {
	scale := int32(1)
	for o := range c.outputs {
		if out, ok := m.outputs[o]; ok && out.scale > scale {
			scale = out.scale
		}
	}
	m.scaleFactorChanged(c, float64(scale), true)
}

func (m *Manager) handlePreferredScale(e PreferredScale) {
	c, _, ok := m.coreByObject(e.Surface)
	if !ok {
		return
	}
	m.scaleFactorChanged(c, e.Scale, false)
}

// scaleFactorChanged applies a new scale. Once a fractional-scale object is
// bound, legacy integer scale is ignored even before the first preferred
// scale arrives.
func (m *Manager) scaleFactorChanged(c *surfaceCore, scale float64, legacy bool) {
	if legacy && c.fractional != nil {
		return
	}
	if scale <= 0 {
		return
	}
	if legacy {
		if err := c.surface.SetBufferScale(int32(scale)); err != nil {
			log.Debugf("set_buffer_scale on %v failed: %v", c.id, err)
		}
	}
	if !c.common.setScale(scale) {
		return
	}
	m.applySize(c, c.common.Size())
	m.emit(ScaleFactorChanged{ID: c.id, Scale: scale, Legacy: legacy, Viewport: c.viewport})
}
