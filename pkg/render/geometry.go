package render

// CubeHalfExtent is half the edge length of the cube in object space.
// The volume texture spans [-CubeHalfExtent, CubeHalfExtent] on every axis.
const CubeHalfExtent = 0.3

// VertexStride is the number of floats per vertex: position then texture
// coordinate.
const VertexStride = 6

// CubeIndexCount is the number of indices drawn per frame.
const CubeIndexCount = 36

// CubeVertices returns the 8 cube corners, each as an object-space position
// followed by the matching texture-space coordinate in [0,1]^3.
func CubeVertices() []float32 {
	const e = CubeHalfExtent
	return []float32{
		// x, y, z         u, v, w
		-e, -e, -e, 0, 0, 0, // 0
		e, -e, -e, 1, 0, 0, // 1
		e, e, -e, 1, 1, 0, // 2
		-e, e, -e, 0, 1, 0, // 3
		e, -e, e, 1, 0, 1, // 4
		e, e, e, 1, 1, 1, // 5
		-e, -e, e, 0, 0, 1, // 6
		-e, e, e, 0, 1, 1, // 7
	}
}

// CubeIndices returns the 12 triangles of the cube, two per face.
func CubeIndices() []uint32 {
	return []uint32{
		0, 1, 2, 0, 2, 3, // z = -e
		1, 4, 5, 1, 5, 2, // x = +e
		6, 3, 7, 6, 0, 3, // x = -e
		3, 2, 5, 3, 5, 7, // y = +e
		4, 7, 5, 4, 6, 7, // z = +e
		0, 6, 4, 0, 4, 1, // y = -e
	}
}
