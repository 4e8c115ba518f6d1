package ui2d

import "fmt"

// Context is the main UI context that manages rendering and input.
type Context struct {
	renderer *Renderer
	input    *InputState

	// Active/hot widget tracking for interaction
	hotWidget    string
	activeWidget string

	// Window state
	windows map[string]*WindowState

	// Windows drawn this frame and last frame. WantsMouse is queried
	// between frames, so it checks the completed one; a window the
	// caller stopped drawing must not keep claiming the pointer.
	drawn     map[string]bool
	lastDrawn map[string]bool

	// Current window being drawn
	currentWindow *WindowState

	// Layout state
	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState holds state for a UI window.
type WindowState struct {
	ID     string
	X, Y   float32
	W, H   float32
	Open   bool
	Moving bool
}

// NewContext creates a new UI context.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &Context{
		renderer: r,
		input:    &InputState{},
		windows:  make(map[string]*WindowState),
	}, nil
}

// Close releases resources.
func (c *Context) Close() {
	if c.renderer != nil {
		c.renderer.Close()
	}
}

// Renderer returns the underlying renderer.
func (c *Context) Renderer() *Renderer {
	return c.renderer
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.drawn = make(map[string]bool)
	c.renderer.Begin()
}

// End finishes the UI frame.
func (c *Context) End() {
	c.renderer.End()
	c.input.EndFrame()
	c.lastDrawn = c.drawn
}

// WantsMouse reports whether the pointer is over a window of the last
// completed frame, so the game can suppress camera drag under the UI.
func (c *Context) WantsMouse() bool {
	for _, ws := range c.windows {
		if ws.Open && c.lastDrawn[ws.ID] && c.input.IsMouseInRect(ws.X, ws.Y, ws.W, ws.H) {
			return true
		}
	}
	return false
}

// BeginWindow starts a new window.
// Returns false if the window is closed.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) bool {
	// Get or create window state
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{
			ID:   id,
			X:    x,
			Y:    y,
			W:    w,
			H:    h,
			Open: true,
		}
		c.windows[id] = ws
	} else if !ws.Moving {
		// Update position from parameters (allows centering on resize)
		ws.X = x
		ws.Y = y
		ws.W = w
		ws.H = h
	}

	if !ws.Open {
		return false
	}

	if c.drawn != nil {
		c.drawn[ws.ID] = true
	}
	c.currentWindow = ws

	// Handle window dragging (title bar is top 22 pixels)
	titleBarH := float32(22)
	titleBarRect := Rect{ws.X, ws.Y, ws.W, titleBarH}

	if c.input.MouseLeftPressed && titleBarRect.Contains(c.input.MouseX, c.input.MouseY) {
		ws.Moving = true
		c.activeWidget = id + "_titlebar"
	}

	if ws.Moving && c.input.MouseLeftDown {
		ws.X += c.input.MouseDeltaX
		ws.Y += c.input.MouseDeltaY
	}

	if c.input.MouseLeftReleased {
		ws.Moving = false
		if c.activeWidget == id+"_titlebar" {
			c.activeWidget = ""
		}
	}

	// Draw window
	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)

	// Draw title bar
	c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorButtonNormal)

	// Draw title text
	scale := float32(1.0)
	_, textH := c.renderer.MeasureText(title, scale)
	textY := ws.Y + (titleBarH-textH)/2
	c.renderer.DrawText(ws.X+8, textY, title, scale, ColorText)

	// Set cursor for content (below title bar, with padding)
	c.cursorX = ws.X + 8
	c.cursorY = ws.Y + titleBarH + 8
	c.rowH = 0

	return true
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	c.currentWindow = nil
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + 8
	c.cursorY += c.rowH + 4
	c.rowH = height
}

// Button draws a button and returns true if clicked.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x := c.cursorX
	y := c.cursorY
	h := c.rowH
	if h == 0 {
		h = 24
	}
	if width == 0 {
		width = c.currentWindow.W - 16
	}

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, width, h}

	// Check interaction - click on press for better responsiveness
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = fullID
		// Use both edge detection AND event-based click for reliability
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = fullID
			clicked = true // Click immediately on press
			// Consume the click event so only one button gets it
			c.input.MouseLeftClicked = false
		}
	}

	// Clear active state on release
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	// Draw button
	color := ColorButtonNormal
	if c.activeWidget == fullID {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}

	c.renderer.DrawRect(x, y, width, h, color)
	c.renderer.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)

	// Draw button label centered
	scale := float32(1.0)
	textW, textH := c.renderer.MeasureText(label, scale)
	textX := x + (width-textW)/2
	textY := y + (h-textH)/2
	c.renderer.DrawText(textX, textY, label, scale, ColorText)

	// Advance cursor
	c.cursorX += width + 4

	return clicked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}

	scale := float32(1.0)
	c.renderer.DrawText(c.cursorX, c.cursorY, text, scale, color)

	// Advance cursor
	w, _ := c.renderer.MeasureText(text, scale)
	c.cursorX += w + 4
}

// LabelCentered draws centered text.
func (c *Context) LabelCentered(text string) {
	if c.currentWindow == nil {
		return
	}

	scale := float32(1.0)
	textW, _ := c.renderer.MeasureText(text, scale)
	windowContentWidth := c.currentWindow.W - 16
	x := c.currentWindow.X + 8 + (windowContentWidth-textW)/2
	if x < c.currentWindow.X+8 {
		x = c.currentWindow.X + 8
	}

	c.renderer.DrawText(x, c.cursorY, text, scale, ColorText)
}

// Spacer adds vertical space.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Separator draws a horizontal separator line.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + 4
	c.rowH = 0
	x := c.currentWindow.X + 8
	w := c.currentWindow.W - 16
	c.renderer.DrawRect(x, c.cursorY, w, 1, ColorPanelBorder)
	c.cursorY += 8
	c.cursorX = x
}

// SameLine keeps the cursor on the same line (for horizontal layouts).
func (c *Context) SameLine() {
	// Don't advance Y; cursorX is already updated by previous widget
}

// ProgressBar draws a progress bar.
func (c *Context) ProgressBar(fraction float32, width, height float32, label string) {
	if c.currentWindow == nil {
		return
	}

	x := c.cursorX
	y := c.cursorY
	if height == 0 {
		height = 18
	}
	if width == 0 {
		width = c.currentWindow.W - 16
	}

	// Clamp fraction
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	// Background
	c.renderer.DrawRect(x, y, width, height, ColorInputBg)
	c.renderer.DrawRectOutline(x, y, width, height, 1, ColorPanelBorder)

	// Progress fill
	fillWidth := (width - 2) * fraction
	if fillWidth > 0 {
		c.renderer.DrawRect(x+1, y+1, fillWidth, height-2, ColorHighlight)
	}

	// Label (centered)
	if label != "" {
		scale := float32(1.0)
		textW, textH := c.renderer.MeasureText(label, scale)
		textX := x + (width-textW)/2
		textY := y + (height-textH)/2
		c.renderer.DrawText(textX, textY, label, scale, ColorText)
	}

	// Advance cursor
	c.cursorX = c.currentWindow.X + 8
	c.cursorY += height + 4
}

// Checkbox draws a checkbox.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.currentWindow == nil {
		return checked
	}

	x := c.cursorX
	y := c.cursorY
	boxSize := float32(16)

	fullID := c.currentWindow.ID + "_" + id

	// The label is part of the click target
	scale := float32(1.0)
	labelW, textH := c.renderer.MeasureText(label, scale)
	rect := Rect{x, y, boxSize + 8 + labelW, boxSize}

	// Check interaction
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)

	if hovered && (c.input.MouseLeftPressed || c.input.MouseLeftClicked) {
		c.activeWidget = fullID
		c.input.MouseLeftClicked = false
		checked = !checked
	}

	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	// Draw checkbox box
	bgColor := ColorInputBg
	if hovered {
		bgColor = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, boxSize, boxSize, bgColor)
	c.renderer.DrawRectOutline(x, y, boxSize, boxSize, 1, ColorPanelBorder)

	// Draw check mark if checked
	if checked {
		// Draw a simple check (filled inner square)
		innerMargin := float32(4)
		c.renderer.DrawRect(
			x+innerMargin, y+innerMargin,
			boxSize-innerMargin*2, boxSize-innerMargin*2,
			ColorHighlight,
		)
	}

	// Draw label
	textY := y + (boxSize-textH)/2
	c.renderer.DrawText(x+boxSize+8, textY, label, scale, ColorText)

	// Advance cursor
	c.cursorX += boxSize + 8 + labelW + 8

	return checked
}

// Slider draws a horizontal slider and returns the updated value.
// The label with the current value is drawn to the right of the track.
func (c *Context) Slider(id string, width float32, value, minV, maxV float32, label string) float32 {
	return c.slider(id, width, value, minV, maxV, fmt.Sprintf("%s: %.2f", label, value))
}

// SliderInt is Slider snapped to whole numbers.
func (c *Context) SliderInt(id string, width float32, value, minV, maxV int, label string) int {
	v := c.slider(id, width, float32(value), float32(minV), float32(maxV),
		fmt.Sprintf("%s: %d", label, value))
	return int(v + 0.5)
}

// slider is the shared slider core; text is the already formatted
// label.
func (c *Context) slider(id string, width float32, value, minV, maxV float32, text string) float32 {
	if c.currentWindow == nil || maxV <= minV {
		return value
	}

	x := c.cursorX
	y := c.cursorY
	h := c.rowH
	if h == 0 {
		h = 18
	}
	if width == 0 {
		width = (c.currentWindow.W - 16) * 0.55
	}

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, width, h}

	// Grab on press anywhere in the track, then drag
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)
	if hovered && (c.input.MouseLeftPressed || c.input.MouseLeftClicked) {
		c.activeWidget = fullID
		c.input.MouseLeftClicked = false
	}

	if c.activeWidget == fullID {
		if c.input.MouseLeftDown {
			t := (c.input.MouseX - x) / width
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			value = minV + t*(maxV-minV)
		} else {
			c.activeWidget = ""
		}
	}

	// Scroll nudges the value while hovered
	if hovered && c.input.ScrollY != 0 {
		value += c.input.ScrollY * (maxV - minV) * 0.02
		if value < minV {
			value = minV
		}
		if value > maxV {
			value = maxV
		}
	}

	// Track
	trackH := float32(6)
	trackY := y + (h-trackH)/2
	c.renderer.DrawRect(x, trackY, width, trackH, ColorInputBg)
	c.renderer.DrawRectOutline(x, trackY, width, trackH, 1, ColorInputBorder)

	// Fill up to the knob
	t := (value - minV) / (maxV - minV)
	if t > 0 {
		c.renderer.DrawRect(x+1, trackY+1, (width-2)*t, trackH-2, ColorHighlight)
	}

	// Knob
	knobW := float32(8)
	knobX := x + t*(width-knobW)
	knobColor := ColorButtonHover
	if c.activeWidget == fullID {
		knobColor = ColorButtonActive
	}
	c.renderer.DrawRect(knobX, y, knobW, h, knobColor)
	c.renderer.DrawRectOutline(knobX, y, knobW, h, 1, ColorPanelBorder)

	// Label
	scale := float32(1.0)
	_, textH := c.renderer.MeasureText(text, scale)
	c.renderer.DrawText(x+width+8, y+(h-textH)/2, text, scale, ColorText)

	// Advance cursor
	c.cursorX += width + 8

	return value
}

// GetScreenSize returns the current screen dimensions.
func (c *Context) GetScreenSize() (float32, float32) {
	w, h := c.renderer.GetScreenSize()
	return float32(w), float32(h)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
