package port

// PhotoStore интерфейс доступа к папке с фото
type PhotoStore interface {
	// List возвращает отсортированные пути к фото под root
	List(root string) ([]string, error)

	// Read читает файл целиком
	Read(path string) ([]byte, error)

	// Copy копирует файл в папку dstDir и возвращает новый путь
	Copy(src, dstDir string) (string, error)
}
