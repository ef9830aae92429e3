package must

func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func T[T any](value T, err error) T {
	Must(err)
	return value
}
