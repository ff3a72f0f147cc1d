package sweep

// Point is one combination of values, one per dimension.
type Point map[string]any

// EnumeratePoints materializes the full ordered Cartesian product of the
// dimensions. Order is lexicographic over sorted dimension names, outer to
// inner: the first name varies slowest, the last varies fastest. This is the
// function that defines the flattened index space shards are cut from.
func EnumeratePoints(d Dimensions) []Point {
	names := d.SortedNames()
	if len(names) == 0 {
		return nil
	}

	total := 1
	for _, name := range names {
		if len(d[name]) == 0 {
			return nil
		}
		total *= len(d[name])
	}

	points := make([]Point, 0, total)
	cursors := make([]int, len(names))
	for {
		point := make(Point, len(names))
		for i, name := range names {
			point[name] = d[name][cursors[i]]
		}
		points = append(points, point)

		i := len(names) - 1
		for ; i >= 0; i-- {
			cursors[i]++
			if cursors[i] < len(d[names[i]]) {
				break
			}
			cursors[i] = 0
		}
		if i < 0 {
			return points
		}
	}
}

// PointAt decodes the point at a flattened index without materializing the
// product. It agrees with EnumeratePoints for every index in [0, total).
func PointAt(d Dimensions, index int) Point {
	names := d.SortedNames()
	if len(names) == 0 || index < 0 {
		return nil
	}

	point := make(Point, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		values := d[names[i]]
		if len(values) == 0 {
			return nil
		}
		point[names[i]] = values[index%len(values)]
		index /= len(values)
	}
	if index != 0 {
		return nil
	}
	return point
}
