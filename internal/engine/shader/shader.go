// Package shader compiles and links the GLSL programs the renderers
// embed. Programs are plain vertex+fragment pairs; geometry and
// compute stages are not used.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CompileProgram builds a program from vertex and fragment sources.
// The caller owns the returned program and deletes it on teardown.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileStage(gl.VERTEX_SHADER, "vertex", vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(gl.FRAGMENT_SHADER, "fragment", fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := programLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", msg)
	}
	return program, nil
}

func compileStage(kind uint32, label, source string) (uint32, error) {
	stage := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(stage, 1, src, nil)
	free()
	gl.CompileShader(stage)

	var ok int32
	gl.GetShaderiv(stage, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		var n int32
		gl.GetShaderiv(stage, gl.INFO_LOG_LENGTH, &n)
		msg := make([]byte, n+1)
		gl.GetShaderInfoLog(stage, n, nil, &msg[0])
		gl.DeleteShader(stage)
		return 0, fmt.Errorf("compile %s shader: %s", label, msg)
	}
	return stage, nil
}

func programLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	msg := make([]byte, n+1)
	gl.GetProgramInfoLog(program, n, nil, &msg[0])
	return string(msg)
}

// GetUniform looks up a uniform location. A missing or optimized-out
// uniform comes back -1, which the gl.Uniform* setters silently
// ignore, so renderers can set optional uniforms unconditionally.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
