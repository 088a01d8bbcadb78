package entity

import "image"

// Photo — фото счётчика, взятое в обработку (ImageRecord).
type Photo struct {
	Path      string      // путь к файлу
	Name      string      // имя файла
	ParentDir string      // имя родительской папки
	Data      []byte      // исходные байты файла
	Image     image.Image // декодированное изображение
	Idpel     string      // идентификатор клиента, извлечённый из имени
	Stand     string      // показание счётчика, если есть
}
