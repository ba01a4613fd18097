package main

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsValid(width, height int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < width && m.Y < height
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}
